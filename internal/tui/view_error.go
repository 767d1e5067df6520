package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderError() string {
	var b strings.Builder

	// Error icon and title
	title := lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true).
		Render("Something went wrong")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	// Error message
	errMsg := "Unknown error"
	if a.state.profilesError != nil {
		errMsg = a.state.profilesError.Error()
	} else if a.state.providerError != nil {
		errMsg = a.state.providerError.Error()
	}

	errBox := styleBox.Copy().
		Width(min(60, max(a.width-4, 20))).
		BorderForeground(colorError).
		Render(errMsg)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, errBox))
	b.WriteString("\n\n")

	// Suggestions based on error type
	var suggestions []string
	errLower := strings.ToLower(errMsg)

	if strings.Contains(errLower, "api key") || strings.Contains(errLower, "401") || strings.Contains(errLower, "unauthorized") {
		suggestions = append(suggestions, "Check your API key in ~/.config/healthiq/config.yaml")
		suggestions = append(suggestions, "Or set it in .env, e.g. GEMINI_API_KEY=...")
	} else if strings.Contains(errLower, "connection") || strings.Contains(errLower, "connect") || strings.Contains(errLower, "timeout") {
		suggestions = append(suggestions, "Check your internet connection")
		suggestions = append(suggestions, "Or try using Ollama for offline mode")
	} else if strings.Contains(errLower, "ollama") {
		suggestions = append(suggestions, "Make sure Ollama is running: ollama serve")
	} else if strings.Contains(errLower, "database") || strings.Contains(errLower, "sqlite") || strings.Contains(errLower, "no profile store") {
		suggestions = append(suggestions, "Check db_path in your config or HEALTHIQ_DB")
		suggestions = append(suggestions, "Add a profile with: healthiq profile add")
	}

	if len(suggestions) > 0 {
		suggBox := styleBox.Copy().
			Width(min(60, max(a.width-4, 20))).
			BorderForeground(colorMuted).
			Render("Suggestions:\n" + strings.Join(suggestions, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, suggBox))
		b.WriteString("\n\n")
	}

	// Actions
	status := styleStatusBar.Render("[r] Retry  [Esc] Back  [q] Quit")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
