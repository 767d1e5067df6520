package reveal

import (
	"fmt"
	"io"
	"sync"
)

// Sink receives reveal output. Scheduler calls it with its lock held, so an
// implementation must not call back into the Scheduler on the same goroutine.
type Sink interface {
	OnCharacter(topic, partial string)
	OnLineComplete(topic, line string)
	OnSessionComplete(topic string)
	OnError(topic, message string)
}

// SessionObserver is implemented by sinks that need to tell sessions apart.
// Scheduler calls OnSessionStart, with its lock held, before the first event
// of every session it starts. A Fail counts as a session of its own.
type SessionObserver interface {
	OnSessionStart(topic string)
}

// Deliver sends events to sink in order.
func Deliver(sink Sink, events []Event) {
	for _, e := range events {
		switch e.Kind {
		case EventCharacter:
			sink.OnCharacter(e.Topic, e.Text)
		case EventLineComplete:
			sink.OnLineComplete(e.Topic, e.Text)
		case EventSessionComplete:
			sink.OnSessionComplete(e.Topic)
		}
	}
}

// WriterSink prints a reveal to a terminal-like writer: each character as it
// arrives, a newline per completed line.
type WriterSink struct {
	mu      sync.Mutex
	w       io.Writer
	printed int
	done    chan string
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w, done: make(chan string, 1)}
}

func (s *WriterSink) OnCharacter(topic, partial string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := []rune(partial)
	if len(r) > s.printed {
		fmt.Fprint(s.w, string(r[s.printed:]))
		s.printed = len(r)
	}
}

func (s *WriterSink) OnLineComplete(topic, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w)
	s.printed = 0
}

func (s *WriterSink) OnSessionComplete(topic string) {
	s.signal(topic)
}

func (s *WriterSink) OnError(topic, message string) {
	s.mu.Lock()
	fmt.Fprintf(s.w, "error: %s\n", message)
	s.mu.Unlock()
	s.signal(topic)
}

func (s *WriterSink) signal(topic string) {
	select {
	case s.done <- topic:
	default:
	}
}

// Done yields the topic of each session that finished or failed.
func (s *WriterSink) Done() <-chan string {
	return s.done
}
