package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/healthiq/internal/topic"
)

const logo = `
 ██╗  ██╗██╗ ██████╗
 ██║  ██║██║██╔═══██╗
 ███████║██║██║   ██║
 ██╔══██║██║██║▄▄ ██║
 ██║  ██║██║╚██████╔╝
 ╚═╝  ╚═╝╚═╝ ╚══▀▀═╝
`

func (a *App) renderWelcome() string {
	// Logo
	logoRendered := styleLogo.Render(logo)

	// Subtitle
	subtitle := styleSubtitle.Render("Personal diet and exercise guidance")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		logoRendered,
		subtitle,
		"",
		a.renderTopicList(),
		a.renderSearch(),
	)

	// Center content on screen (leave room for status bar)
	mainArea := lipgloss.Place(
		a.width,
		a.height-2,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)

	statusLine := lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.providerStatus()+
		styleStatusBar.Render("[j/k] Navigate  [Enter] Reveal  [/] Find  [?] Help  [q] Quit"))

	return lipgloss.JoinVertical(lipgloss.Left, mainArea, statusLine)
}

// renderTopicList shows the catalog grouped by section, cursor on topicIdx.
func (a *App) renderTopicList() string {
	var lines []string
	for _, section := range []topic.Section{topic.Diet, topic.Exercise} {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, styleHeading.Render(sectionTitle(section)))
		for i, t := range topic.Catalog {
			if t.Section != section {
				continue
			}
			if i == a.state.topicIdx {
				lines = append(lines, styleSelected.Render(fmt.Sprintf("> %-20s %s", t.Name, t.Description)))
			} else {
				lines = append(lines, styleSubtitle.Render(fmt.Sprintf("  %-20s %s", t.Name, t.Description)))
			}
		}
	}

	return styleBox.Copy().
		Width(min(64, max(a.width-4, 20))).
		Render(strings.Join(lines, "\n"))
}

func (a *App) renderSearch() string {
	if !a.state.searching {
		return ""
	}
	input := styleBox.Copy().
		Width(min(64, max(a.width-4, 20))).
		BorderForeground(colorSecondary).
		Render(a.state.searchInput.View())
	if a.state.searchMiss != "" {
		miss := lipgloss.NewStyle().Foreground(colorError).
			Render(fmt.Sprintf("No topic matches %q", a.state.searchMiss))
		return lipgloss.JoinVertical(lipgloss.Center, input, miss)
	}
	return input
}

func (a *App) providerStatus() string {
	switch {
	case a.state.providerError != nil:
		return lipgloss.NewStyle().Foreground(colorError).Render("model offline") + "  "
	case a.state.providerReady:
		return lipgloss.NewStyle().Foreground(colorSuccess).Render(a.state.providerName) + "  "
	default:
		return ""
	}
}

func sectionTitle(s topic.Section) string {
	switch s {
	case topic.Diet:
		return "Diet"
	case topic.Exercise:
		return "Exercise"
	default:
		return string(s)
	}
}

func (a *App) centerVertically(content string) string {
	lines := strings.Count(content, "\n") + 1
	padding := (a.height - lines) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat("\n", padding) + content
}
