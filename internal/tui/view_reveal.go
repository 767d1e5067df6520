package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderReveal() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render(a.state.active.Name)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n")
	sub := styleSubtitle.Render(a.state.active.Description)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, sub))
	b.WriteString("\n\n")

	if a.state.loading {
		b.WriteString(a.renderProcessing())
		b.WriteString("\n\n")
		status := styleStatusBar.Render("[Esc] Cancel  [Tab] Next topic")
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))
		return a.centerVertically(b.String())
	}

	boxStyle := styleBox.Copy().
		Width(min(70, max(a.width-4, 20))).
		BorderForeground(colorSecondary)

	var body string
	if a.state.failure != "" {
		boxStyle = boxStyle.BorderForeground(colorError)
		body = lipgloss.NewStyle().Foreground(colorError).Render(a.state.failure)
	} else {
		lines := append([]string(nil), a.state.lines...)
		if !a.state.complete {
			lines = append(lines, a.state.partial+"_")
		}

		// Show the last lines that fit
		maxLines := a.height - 10
		if maxLines < 5 {
			maxLines = 5
		}
		if len(lines) > maxLines {
			lines = lines[len(lines)-maxLines:]
		}
		body = strings.Join(lines, "\n")
		if a.state.complete {
			boxStyle = boxStyle.BorderForeground(colorPrimary)
		}
	}

	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, boxStyle.Render(body)))
	b.WriteString("\n\n")

	var status string
	switch {
	case a.state.failure != "":
		status = styleStatusBar.Render("[r] Retry  [Tab] Next topic  [Esc] Back")
	case a.state.complete:
		status = styleStatusBar.Render("[Tab] Next topic  [/] Find  [Esc] Back  [q] Quit")
	default:
		status = styleStatusBar.Render("Revealing...  [Tab] Next topic  [Esc] Cancel")
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	if a.state.searching {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.renderSearch()))
	}

	return a.centerVertically(b.String())
}
