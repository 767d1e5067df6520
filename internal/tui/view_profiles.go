package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderProfiles() string {
	var b strings.Builder

	header := styleLogo.Render(logo)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n\n")

	title := styleHeading.Render("Whose recommendations?")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	var lines []string
	for i, p := range a.state.profiles {
		label := fmt.Sprintf("%-18s %3d  %s", truncate(p.Name, 18), p.Age, truncate(p.Location, 20))
		if i == a.state.profileIdx {
			lines = append(lines, styleSelected.Render("> "+label))
		} else {
			lines = append(lines, styleSubtitle.Render("  "+label))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, styleSubtitle.Render("No profiles yet. Add one with: healthiq profile add"))
	}

	box := styleBox.Copy().
		Width(min(56, max(a.width-4, 20))).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[j/k] Navigate  [Enter] Select  [Esc] Quit")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
