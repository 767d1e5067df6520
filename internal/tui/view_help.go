package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderHelp() string {
	var b strings.Builder

	// Title
	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Help")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	// Topics
	commands := []string{
		"  Pick a topic to reveal its advice line by line.",
		"  Diet topics read the diet plan, exercise topics",
		"  the exercise plan. Switching topics stops the",
		"  current reveal at once.",
	}

	commandsBox := styleBox.Copy().
		Width(50).
		Render(strings.Join(commands, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, commandsBox))
	b.WriteString("\n\n")

	// Keyboard shortcuts
	shortcuts := []string{
		"  j/k, Up/Down   Move through the list",
		"  Enter          Select",
		"  Tab            Next topic",
		"  /              Find a topic by name",
		"  r              Retry a failed topic",
		"  Esc            Go back",
		"  q, Ctrl+C      Quit",
	}

	shortcutsTitle := styleSubtitle.Render("Keyboard Shortcuts")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsTitle))
	b.WriteString("\n\n")

	shortcutsBox := styleBox.Copy().
		Width(50).
		Render(strings.Join(shortcuts, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsBox))
	b.WriteString("\n\n")

	// Instructions
	instructions := styleStatusBar.Render("[?] Close  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
