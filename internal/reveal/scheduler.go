package reveal

import (
	"sync"
	"time"

	"github.com/facebookgo/clock"
)

// DefaultInterval is the delay between two ticks.
const DefaultInterval = 20 * time.Millisecond

// Scheduler drives one Session at a time on a clock. Selecting a topic
// replaces the running session; after Select or Cancel returns the old
// session never reaches the sink again, even if its timer already fired.
type Scheduler struct {
	clock    clock.Clock
	interval time.Duration
	sink     Sink

	mu      sync.Mutex
	session *Session
	timer   *clock.Timer
	// gen identifies the live session; callbacks from older ones are ignored
	gen uint64
}

func NewScheduler(clk clock.Clock, interval time.Duration, sink Sink) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{clock: clk, interval: interval, sink: sink}
}

// Select cancels the current session and starts revealing lines for topic.
func (s *Scheduler) Select(topic string, lines []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.session = NewSession(topic, lines)
	s.startLocked(topic)
	s.scheduleLocked()
}

// Cancel stops the current session without starting another.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Fail cancels the current session and reports message for topic.
func (s *Scheduler) Fail(topic, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.startLocked(topic)
	s.sink.OnError(topic, message)
}

// State of the current session, or Idle before the first Select.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return Idle
	}
	return s.session.State
}

// Topic of the current session.
func (s *Scheduler) Topic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.Topic
}

func (s *Scheduler) stopLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.session != nil {
		s.session.Cancel()
	}
}

func (s *Scheduler) startLocked(topic string) {
	if o, ok := s.sink.(SessionObserver); ok {
		o.OnSessionStart(topic)
	}
}

func (s *Scheduler) scheduleLocked() {
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.interval, func() { s.tick(gen) })
}

func (s *Scheduler) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.session == nil || s.session.State != Revealing {
		return
	}

	Deliver(s.sink, s.session.Advance())

	if s.session.State == Revealing {
		s.scheduleLocked()
	} else {
		s.timer = nil
	}
}
