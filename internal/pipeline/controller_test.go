package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/healthiq/internal/llm"
	"github.com/sant0-9/healthiq/internal/profile"
	"github.com/sant0-9/healthiq/internal/reveal"
	"github.com/sant0-9/healthiq/internal/sanitize"
	"github.com/sant0-9/healthiq/internal/segment"
	"github.com/sant0-9/healthiq/internal/topic"
)

var (
	nutrition, _ = topic.Lookup("Nutrition Focus")
	cardio, _    = topic.Lookup("Cardio Routine")
	training, _  = topic.Lookup("Training Structure")
)

var sample = sanitize.Recommendation{
	Diet:     "Nutrition: more greens\nHydration: 2L water",
	Exercise: "Training: 3x strength\nCardio: 20 min run",
	Stage:    sanitize.StageStructured,
}

type call struct {
	profileID string
	reply     chan result
}

type result struct {
	rec sanitize.Recommendation
	err error
}

// gatedRecommender blocks every call until the test replies.
type gatedRecommender struct {
	started chan call
}

func newGated() *gatedRecommender {
	return &gatedRecommender{started: make(chan call, 8)}
}

func (g *gatedRecommender) Recommend(ctx context.Context, profileID string) (sanitize.Recommendation, error) {
	c := call{profileID: profileID, reply: make(chan result, 1)}
	g.started <- c
	r := <-c.reply
	return r.rec, r.err
}

type instantRecommender struct {
	mu    sync.Mutex
	calls int
	rec   sanitize.Recommendation
	err   error
}

func (r *instantRecommender) Recommend(ctx context.Context, profileID string) (sanitize.Recommendation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.rec, r.err
}

func (r *instantRecommender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type revealCall struct {
	kind  string
	topic string
	lines []string
}

type fakeRevealer struct {
	mu    sync.Mutex
	calls []revealCall
}

func (f *fakeRevealer) Select(topic string, lines []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, revealCall{kind: "select", topic: topic, lines: lines})
}

func (f *fakeRevealer) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, revealCall{kind: "cancel"})
}

func (f *fakeRevealer) Fail(topic, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, revealCall{kind: "fail", topic: topic, lines: []string{message}})
}

func (f *fakeRevealer) of(kind string) []revealCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []revealCall
	for _, c := range f.calls {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func TestControllerDropsStaleResult(t *testing.T) {
	gated := newGated()
	rv := &fakeRevealer{}
	c := NewController(gated, rv, true, nil)

	first := c.SelectTopic(context.Background(), "p1", nutrition)
	callA := <-gated.started
	second := c.SelectTopic(context.Background(), "p1", cardio)
	callB := <-gated.started
	assert.Greater(t, second, first)

	callA.reply <- result{rec: sanitize.Recommendation{Diet: "Nutrition: stale", Exercise: "stale", Stage: sanitize.StageStructured}}
	callB.reply <- result{rec: sample}
	require.Eventually(t, func() bool { return len(rv.of("select")) == 1 }, time.Second, time.Millisecond)
	c.Close()

	selects := rv.of("select")
	require.Len(t, selects, 1)
	assert.Equal(t, cardio.Name, selects[0].topic)
	assert.Equal(t, []string{"Cardio: 20 min run"}, selects[0].lines)
}

func TestControllerSelectStopsCurrentReveal(t *testing.T) {
	gated := newGated()
	rv := &fakeRevealer{}
	c := NewController(gated, rv, true, nil)
	defer c.Close()

	c.SelectTopic(context.Background(), "p1", nutrition)
	assert.Len(t, rv.of("cancel"), 1, "reveal is cancelled before SelectTopic returns")

	call := <-gated.started
	call.reply <- result{rec: sample}
	require.Eventually(t, func() bool { return len(rv.of("select")) == 1 }, time.Second, time.Millisecond)
}

func TestControllerCancelDropsInFlight(t *testing.T) {
	gated := newGated()
	rv := &fakeRevealer{}
	c := NewController(gated, rv, true, nil)

	c.SelectTopic(context.Background(), "p1", nutrition)
	call := <-gated.started
	c.Cancel()

	call.reply <- result{rec: sample}
	c.Close()
	assert.Empty(t, rv.of("select"))
	assert.Empty(t, rv.of("fail"))
}

func TestControllerReusesRecommendation(t *testing.T) {
	rec := &instantRecommender{rec: sample}
	rv := &fakeRevealer{}
	c := NewController(rec, rv, true, nil)
	defer c.Close()

	c.SelectTopic(context.Background(), "p1", nutrition)
	require.Eventually(t, func() bool { return len(rv.of("select")) == 1 }, time.Second, time.Millisecond)

	// second topic is revealed synchronously from the kept result
	c.SelectTopic(context.Background(), "p1", training)
	selects := rv.of("select")
	require.Len(t, selects, 2)
	assert.Equal(t, []string{"Training: 3x strength"}, selects[1].lines)
	assert.Equal(t, 1, rec.count())

	c.Forget("p1")
	c.SelectTopic(context.Background(), "p1", cardio)
	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, time.Millisecond)
}

func TestControllerValidationError(t *testing.T) {
	rec := &instantRecommender{err: fmt.Errorf("fetch profile x: %w", profile.ErrNotFound)}
	rv := &fakeRevealer{}
	c := NewController(rec, rv, true, nil)

	c.SelectTopic(context.Background(), "x", cardio)
	require.Eventually(t, func() bool { return len(rv.of("fail")) == 1 }, time.Second, time.Millisecond)
	c.Close()

	fail := rv.of("fail")[0]
	assert.Equal(t, cardio.Name, fail.topic)
	assert.Equal(t, []string{"That profile does not exist."}, fail.lines)
	assert.Empty(t, rv.of("select"))
}

func TestControllerUpstreamFailureReveals(t *testing.T) {
	rec := &instantRecommender{rec: sanitize.Failed(), err: fmt.Errorf("generate: %w", llm.ErrTimeout)}
	rv := &fakeRevealer{}
	c := NewController(rec, rv, true, nil)

	c.SelectTopic(context.Background(), "p1", cardio)
	require.Eventually(t, func() bool { return len(rv.of("select")) == 1 }, time.Second, time.Millisecond)

	// failures are not kept
	c.SelectTopic(context.Background(), "p1", cardio)
	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, time.Millisecond)
	c.Close()

	assert.Equal(t, []string{sanitize.FailureMessage}, rv.of("select")[0].lines)
}

func TestControllerWithScheduler(t *testing.T) {
	clk := clock.NewMock()
	sink := &collectSink{}
	sched := reveal.NewScheduler(clk, 20*time.Millisecond, sink)
	c := NewController(&instantRecommender{rec: sample}, sched, true, nil)

	c.SelectTopic(context.Background(), "p1", cardio)
	require.Eventually(t, func() bool { return sched.State() == reveal.Revealing }, time.Second, time.Millisecond)

	clk.Add(time.Second)
	c.Close()

	assert.Equal(t, []string{"Cardio: 20 min run"}, sink.lines())
	assert.True(t, sink.complete(cardio.Name))
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"Nutrition: more greens"}, Lines(sample, nutrition, true))
	assert.Equal(t, []string{"Nutrition: more greens", "Hydration: 2L water"}, Lines(sample, nutrition, false))
	flex := topic.Topic{Name: "Flexibility", Section: topic.Exercise, Keyword: "Flexibility"}
	assert.Equal(t, []string{segment.NoContent}, Lines(sample, flex, true))
	assert.Equal(t, []string{sanitize.FailureMessage}, Lines(sanitize.Failed(), flex, true))
}

type collectSink struct {
	mu   sync.Mutex
	done map[string]bool
	got  []string
}

func (s *collectSink) OnCharacter(topic, partial string) {}

func (s *collectSink) OnLineComplete(topic, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, line)
}

func (s *collectSink) OnSessionComplete(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		s.done = make(map[string]bool)
	}
	s.done[topic] = true
}

func (s *collectSink) OnError(topic, message string) {}

func (s *collectSink) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.got...)
}

func (s *collectSink) complete(topic string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done[topic]
}
