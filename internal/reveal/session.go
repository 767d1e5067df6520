// Package reveal plays a sequence of lines to a Sink one character at a time.
package reveal

import "github.com/sant0-9/healthiq/internal/segment"

// State of a reveal session.
type State int

const (
	Idle State = iota
	Revealing
	Complete
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Revealing:
		return "revealing"
	case Complete:
		return "complete"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// EventKind identifies what a tick produced.
type EventKind int

const (
	EventCharacter EventKind = iota + 1
	EventLineComplete
	EventSessionComplete
)

// Event is one unit of output. Text is the partial line for EventCharacter
// and the whole line for EventLineComplete.
type Event struct {
	Kind  EventKind
	Topic string
	Text  string
}

// Session is the progress of one topic through its lines. Use Advance to
// move it; the scheduler owns the only live session.
type Session struct {
	Topic     string
	Lines     []string
	LineIndex int
	CharIndex int
	State     State

	runes [][]rune
}

// NewSession starts a session in the Revealing state. An empty line list is
// replaced with segment.NoContent.
func NewSession(topic string, lines []string) *Session {
	if len(lines) == 0 {
		lines = []string{segment.NoContent}
	}
	s := &Session{
		Topic: topic,
		Lines: append([]string(nil), lines...),
		State: Revealing,
		runes: make([][]rune, len(lines)),
	}
	for i, line := range s.Lines {
		s.runes[i] = []rune(line)
	}
	return s
}

// Advance performs one tick. While the current line has characters left it
// reveals the next one; otherwise it commits the line. Committing the last
// line also completes the session, so that tick returns two events.
// Advance on a session that is not Revealing returns nil.
func (s *Session) Advance() []Event {
	if s.State != Revealing {
		return nil
	}

	line := s.runes[s.LineIndex]
	if s.CharIndex < len(line) {
		s.CharIndex++
		return []Event{{Kind: EventCharacter, Topic: s.Topic, Text: string(line[:s.CharIndex])}}
	}

	events := []Event{{Kind: EventLineComplete, Topic: s.Topic, Text: s.Lines[s.LineIndex]}}
	s.LineIndex++
	s.CharIndex = 0
	if s.LineIndex >= len(s.Lines) {
		s.State = Complete
		events = append(events, Event{Kind: EventSessionComplete, Topic: s.Topic})
	}
	return events
}

// Cancel stops a revealing session. Finished sessions are left alone.
func (s *Session) Cancel() {
	if s.State == Revealing {
		s.State = Cancelled
	}
}

// Partial is the visible part of the current line.
func (s *Session) Partial() string {
	if s.LineIndex >= len(s.runes) {
		return ""
	}
	return string(s.runes[s.LineIndex][:s.CharIndex])
}

// Ticks is the number of Advance calls needed to complete the session from
// the start.
func (s *Session) Ticks() int {
	n := 0
	for _, line := range s.runes {
		n += len(line) + 1
	}
	return n
}
