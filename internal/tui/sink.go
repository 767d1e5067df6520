package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Reveal messages carry the session they belong to. The app only accepts
// events from the latest session started for its active topic.
type sessionStartMsg struct {
	session uint64
	topic   string
}
type characterMsg struct {
	session        uint64
	topic, partial string
}
type lineMsg struct {
	session     uint64
	topic, line string
}
type completeMsg struct {
	session uint64
	topic   string
}
type revealErrorMsg struct {
	session        uint64
	topic, message string
}

// programSink turns reveal events into program messages. Until a program is
// attached the events are dropped.
type programSink struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	session uint64
}

func (s *programSink) setSend(fn func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = fn
}

func (s *programSink) emit(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (s *programSink) current() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *programSink) OnSessionStart(topic string) {
	s.mu.Lock()
	s.session++
	id := s.session
	s.mu.Unlock()
	s.emit(sessionStartMsg{id, topic})
}

func (s *programSink) OnCharacter(topic, partial string) {
	s.emit(characterMsg{s.current(), topic, partial})
}

func (s *programSink) OnLineComplete(topic, line string) {
	s.emit(lineMsg{s.current(), topic, line})
}

func (s *programSink) OnSessionComplete(topic string) {
	s.emit(completeMsg{s.current(), topic})
}

func (s *programSink) OnError(topic, message string) {
	s.emit(revealErrorMsg{s.current(), topic, message})
}
