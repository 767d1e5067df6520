package tui

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/facebookgo/clock"

	"github.com/sant0-9/healthiq/internal/llm"
	"github.com/sant0-9/healthiq/internal/logger"
	"github.com/sant0-9/healthiq/internal/pipeline"
	"github.com/sant0-9/healthiq/internal/profile"
	"github.com/sant0-9/healthiq/internal/reveal"
	"github.com/sant0-9/healthiq/internal/topic"
)

type view int

const (
	viewProfiles view = iota
	viewTopics
	viewReveal
	viewHelp
	viewError
)

var errNoProfiles = errors.New("no profile store configured")

// ProfileLister is the part of the profile store the picker needs.
type ProfileLister interface {
	List(ctx context.Context) ([]profile.Profile, error)
}

// progressReporter is implemented by *pipeline.Pipeline.
type progressReporter interface {
	SetProgressCallback(fn func(pipeline.Progress))
}

type Options struct {
	Recommender pipeline.Recommender
	// Profiles feeds the profile picker. Without it ProfileID must be set.
	Profiles ProfileLister
	// Provider is pinged once on start; nil skips the check.
	Provider     llm.Provider
	ProfileID    string
	Interval     time.Duration
	FilterTopics bool
	Clock        clock.Clock
	Log          *logger.Logger
}

type App struct {
	width    int
	height   int
	view     view
	prevView view
	state    *state
	quitting bool
	spinning bool

	opts  Options
	sink  *programSink
	sched *reveal.Scheduler
	ctrl  *pipeline.Controller
	gate  *requestGate
	log   *logger.Logger
}

// requestGate orders controller calls issued from Update. Commands run on
// their own goroutines, so a call issued earlier may start later; it is
// skipped once a newer one has run.
type requestGate struct {
	mu     sync.Mutex
	issued uint64
	ran    uint64
}

func (g *requestGate) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	return g.issued
}

func (g *requestGate) run(n uint64, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n <= g.ran {
		return false
	}
	g.ran = n
	fn()
	return true
}

func NewApp(opts Options) *App {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	s := newState()
	s.profileID = opts.ProfileID
	if opts.Provider != nil {
		s.providerName = opts.Provider.Name()
	}

	sink := &programSink{}
	sched := reveal.NewScheduler(opts.Clock, opts.Interval, sink)

	a := &App{
		view:  viewTopics,
		state: s,
		opts:  opts,
		sink:  sink,
		sched: sched,
		ctrl:  pipeline.NewController(opts.Recommender, sched, opts.FilterTopics, log),
		gate:  &requestGate{},
		log:   log.With("component", "tui"),
	}
	if s.profileID == "" {
		a.view = viewProfiles
	}
	return a
}

// SetProgram routes reveal and pipeline progress events into p.
func (a *App) SetProgram(p *tea.Program) {
	a.sink.setSend(p.Send)
	if pr, ok := a.opts.Recommender.(progressReporter); ok {
		pr.SetProgressCallback(func(pg pipeline.Progress) {
			a.sink.emit(progressMsg{pg})
		})
	}
}

// Close stops the reveal and waits for in-flight requests. Call it after
// the program has exited.
func (a *App) Close() {
	a.ctrl.Close()
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.WindowSize(), a.testProvider()}
	if a.view == viewProfiles {
		cmds = append(cmds, a.loadProfiles())
	}
	return tea.Batch(cmds...)
}

func (a *App) testProvider() tea.Cmd {
	provider := a.opts.Provider
	if provider == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := provider.Ping(ctx); err != nil {
			return providerErrorMsg{err}
		}
		return providerReadyMsg{}
	}
}

func (a *App) loadProfiles() tea.Cmd {
	lister := a.opts.Profiles
	return func() tea.Msg {
		if lister == nil {
			return profilesErrorMsg{errNoProfiles}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		profiles, err := lister.List(ctx)
		if err != nil {
			return profilesErrorMsg{err}
		}
		return profilesLoadedMsg{profiles}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case providerReadyMsg:
		a.state.providerReady = true
		a.state.providerError = nil

	case providerErrorMsg:
		a.log.Warn("provider check failed", "error", msg.error)
		a.state.providerError = msg.error

	case profilesLoadedMsg:
		a.state.profiles = msg.profiles
		a.state.profilesError = nil
		if a.state.profileIdx >= len(msg.profiles) {
			a.state.profileIdx = 0
		}

	case profilesErrorMsg:
		a.state.profilesError = msg.error
		a.view = viewError

	case sessionStartMsg:
		if msg.topic == a.state.active.Name {
			a.state.startSession(msg.session)
		}

	case characterMsg:
		if !a.state.accepts(msg.session) {
			return a, nil
		}
		a.state.loading = false
		a.state.partial = msg.partial

	case lineMsg:
		if !a.state.accepts(msg.session) {
			return a, nil
		}
		a.state.loading = false
		a.state.partial = ""
		a.state.lines = append(a.state.lines, msg.line)

	case completeMsg:
		if !a.state.accepts(msg.session) {
			return a, nil
		}
		a.state.loading = false
		a.state.complete = true

	case revealErrorMsg:
		if !a.state.accepts(msg.session) {
			return a, nil
		}
		a.state.loading = false
		a.state.complete = true
		a.state.failure = msg.message

	case progressMsg:
		if a.state.loading {
			p := msg.Progress
			a.state.progress = &p
		}

	case spinner.TickMsg:
		if !a.state.loading {
			a.spinning = false
			return a, nil
		}
		a.state.spinnerFrame++
		var cmd tea.Cmd
		a.state.spinner, cmd = a.state.spinner.Update(msg)
		return a, cmd

	case selectedMsg:
		a.log.Debug("topic selected", "request", msg.token)

	default:
		if a.state.searching {
			var cmd tea.Cmd
			a.state.searchInput, cmd = a.state.searchInput.Update(msg)
			return a, cmd
		}
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.state.searching {
		return a.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, keys.Help):
		if a.view == viewHelp {
			a.view = a.prevView
			return nil
		}
		a.prevView = a.view
		a.view = viewHelp
		return nil

	case key.Matches(msg, keys.Back):
		return a.back()
	}

	switch a.view {
	case viewProfiles:
		return a.handleProfilesKey(msg)
	case viewTopics:
		return a.handleTopicsKey(msg)
	case viewReveal:
		return a.handleRevealKey(msg)
	case viewError:
		if key.Matches(msg, keys.Retry) {
			a.view = viewProfiles
			return a.loadProfiles()
		}
	}
	return nil
}

func (a *App) back() tea.Cmd {
	switch a.view {
	case viewProfiles:
		a.quitting = true
		return tea.Quit
	case viewHelp:
		a.view = a.prevView
	case viewReveal:
		a.view = viewTopics
		a.state.loading = false
		return a.cancelReveal()
	case viewTopics:
		if a.opts.Profiles != nil {
			a.view = viewProfiles
			return a.loadProfiles()
		}
	case viewError:
		if a.state.profileID != "" {
			a.view = viewTopics
		}
	}
	return nil
}

func (a *App) handleProfilesKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Up):
		if a.state.profileIdx > 0 {
			a.state.profileIdx--
		}
	case key.Matches(msg, keys.Down):
		if a.state.profileIdx < len(a.state.profiles)-1 {
			a.state.profileIdx++
		}
	case key.Matches(msg, keys.Enter):
		if len(a.state.profiles) == 0 {
			return nil
		}
		prev := a.state.profileID
		a.state.profileID = a.state.profiles[a.state.profileIdx].ID
		a.view = viewTopics
		if prev != "" && prev != a.state.profileID {
			return a.forgetProfile(prev)
		}
	}
	return nil
}

func (a *App) handleTopicsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Up):
		if a.state.topicIdx > 0 {
			a.state.topicIdx--
		}
	case key.Matches(msg, keys.Down), key.Matches(msg, keys.Tab):
		a.state.topicIdx = (a.state.topicIdx + 1) % len(topic.Catalog)
	case key.Matches(msg, keys.Enter):
		return a.selectTopic(topic.Catalog[a.state.topicIdx])
	case key.Matches(msg, keys.Search):
		return a.startSearch()
	}
	return nil
}

func (a *App) handleRevealKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Up):
		a.state.topicIdx = (a.state.topicIdx + len(topic.Catalog) - 1) % len(topic.Catalog)
		return a.selectTopic(topic.Catalog[a.state.topicIdx])
	case key.Matches(msg, keys.Down), key.Matches(msg, keys.Tab):
		a.state.topicIdx = (a.state.topicIdx + 1) % len(topic.Catalog)
		return a.selectTopic(topic.Catalog[a.state.topicIdx])
	case key.Matches(msg, keys.Retry):
		if a.state.failure != "" {
			return a.selectTopic(a.state.active)
		}
	case key.Matches(msg, keys.Search):
		return a.startSearch()
	}
	return nil
}

func (a *App) startSearch() tea.Cmd {
	a.state.searching = true
	a.state.searchMiss = ""
	a.state.searchInput.Reset()
	a.state.searchInput.Focus()
	return textinput.Blink
}

func (a *App) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		a.quitting = true
		return tea.Quit
	case tea.KeyEsc:
		a.state.searching = false
		a.state.searchInput.Blur()
		return nil
	case tea.KeyEnter:
		query := a.state.searchInput.Value()
		t, ok := topic.Lookup(query)
		if !ok {
			a.state.searchMiss = query
			return nil
		}
		a.state.searching = false
		a.state.searchInput.Blur()
		for i, c := range topic.Catalog {
			if c.Name == t.Name {
				a.state.topicIdx = i
			}
		}
		return a.selectTopic(t)
	}

	var cmd tea.Cmd
	a.state.searchInput, cmd = a.state.searchInput.Update(msg)
	return cmd
}

// selectTopic switches the reveal panel to t. The controller call runs as a
// command because the sink delivers into the program while the scheduler
// holds its lock.
func (a *App) selectTopic(t topic.Topic) tea.Cmd {
	a.state.resetReveal(t)
	a.view = viewReveal

	if a.opts.Recommender == nil {
		a.state.loading = false
		a.state.complete = true
		a.state.failure = pipeline.UserMessage(pipeline.ErrNoGenerator)
		return nil
	}

	cmds := []tea.Cmd{a.requestTopic(t)}
	if !a.spinning {
		a.spinning = true
		cmds = append(cmds, a.state.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (a *App) requestTopic(t topic.Topic) tea.Cmd {
	ctrl, gate, profileID := a.ctrl, a.gate, a.state.profileID
	n := gate.next()
	return func() tea.Msg {
		var token uint64
		if !gate.run(n, func() { token = ctrl.SelectTopic(context.Background(), profileID, t) }) {
			return nil
		}
		return selectedMsg{token}
	}
}

// forgetProfile drops the kept recommendation of a profile the user left.
func (a *App) forgetProfile(id string) tea.Cmd {
	ctrl := a.ctrl
	return func() tea.Msg {
		ctrl.Forget(id)
		return nil
	}
}

func (a *App) cancelReveal() tea.Cmd {
	ctrl, gate := a.ctrl, a.gate
	n := gate.next()
	return func() tea.Msg {
		gate.run(n, ctrl.Cancel)
		return nil
	}
}

type providerReadyMsg struct{}
type providerErrorMsg struct{ error }
type profilesLoadedMsg struct{ profiles []profile.Profile }
type profilesErrorMsg struct{ error }
type selectedMsg struct{ token uint64 }
type progressMsg struct{ pipeline.Progress }

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.view {
	case viewProfiles:
		return a.renderProfiles()
	case viewReveal:
		return a.renderReveal()
	case viewHelp:
		return a.renderHelp()
	case viewError:
		return a.renderError()
	default:
		return a.renderWelcome()
	}
}
