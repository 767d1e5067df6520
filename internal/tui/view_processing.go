package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/healthiq/internal/pipeline"
)

// Shown while the model is working
var loadingMessages = []string{
	"Reading your profile...",
	"Weighing your habits...",
	"Planning meals...",
	"Drafting workouts...",
	"Checking the details...",
}

var stages = []pipeline.Stage{
	pipeline.StageFetching,
	pipeline.StagePrompting,
	pipeline.StageGenerating,
	pipeline.StageSanitizing,
}

func (a *App) renderProcessing() string {
	var b strings.Builder

	currentStage := 0
	if a.state.progress != nil {
		currentStage = a.state.progress.StageIndex
	}

	var stageLines []string
	for i, stage := range stages {
		var icon string
		var style lipgloss.Style

		if i < currentStage {
			icon = "[x]"
			style = lipgloss.NewStyle().Foreground(colorSuccess)
		} else if i == currentStage {
			icon = "[>]"
			style = lipgloss.NewStyle().Foreground(colorSecondary).Bold(true)
		} else {
			icon = "[ ]"
			style = lipgloss.NewStyle().Foreground(colorMuted)
		}

		stageLines = append(stageLines, style.Render(fmt.Sprintf("  %s  %-12s", icon, stage)))
	}

	stagesBox := styleBox.Copy().
		Width(min(40, max(a.width-4, 20))).
		Render(strings.Join(stageLines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, stagesBox))
	b.WriteString("\n\n")

	msg := loadingMessages[(a.state.spinnerFrame/10)%len(loadingMessages)]
	if a.state.progress != nil && a.state.progress.Message != "" {
		msg = a.state.progress.Message
	}
	status := a.state.spinner.View() + " " + styleSubtitle.Render(truncate(msg, 50))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return b.String()
}
