package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/healthiq/internal/pipeline"
	"github.com/sant0-9/healthiq/internal/profile"
	"github.com/sant0-9/healthiq/internal/topic"
)

type state struct {
	// Profiles
	profiles      []profile.Profile
	profileIdx    int
	profileID     string
	profilesError error

	// Topic picker
	topicIdx    int
	searching   bool
	searchInput textinput.Model
	searchMiss  string

	// Reveal
	active topic.Topic
	// session is the reveal session shown in the panel, 0 until it starts
	session  uint64
	lines    []string
	partial  string
	loading  bool
	complete bool
	failure  string
	progress *pipeline.Progress

	// Spinner
	spinner      spinner.Model
	spinnerFrame int

	// Provider
	providerName  string
	providerReady bool
	providerError error
}

func newState() *state {
	search := textinput.New()
	search.Placeholder = "Type a topic, e.g. cardio..."
	search.CharLimit = 60
	search.Width = 40

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(colorSecondary)

	return &state{
		searchInput: search,
		spinner:     spin,
	}
}

// resetReveal clears the reveal panel for a new topic.
func (s *state) resetReveal(t topic.Topic) {
	s.active = t
	s.session = 0
	s.lines = nil
	s.partial = ""
	s.loading = true
	s.complete = false
	s.failure = ""
	s.progress = nil
}

// startSession binds the panel to a session of the active topic and drops
// whatever an earlier session showed.
func (s *state) startSession(id uint64) {
	s.session = id
	s.lines = nil
	s.partial = ""
	s.complete = false
	s.failure = ""
}

// accepts reports whether an event from session id belongs in the panel.
func (s *state) accepts(id uint64) bool {
	return s.session != 0 && id == s.session
}
