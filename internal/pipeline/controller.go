package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/sant0-9/healthiq/internal/logger"
	"github.com/sant0-9/healthiq/internal/profile"
	"github.com/sant0-9/healthiq/internal/sanitize"
	"github.com/sant0-9/healthiq/internal/segment"
	"github.com/sant0-9/healthiq/internal/topic"
)

// Recommender is the part of Pipeline the controller needs.
type Recommender interface {
	Recommend(ctx context.Context, profileID string) (sanitize.Recommendation, error)
}

// Revealer plays lines on one display surface. *reveal.Scheduler implements it.
type Revealer interface {
	Select(topic string, lines []string)
	Cancel()
	Fail(topic, message string)
}

// Controller connects topic selection on one display surface to the
// pipeline. Every SelectTopic takes a new request token; a result that
// arrives for an older token is dropped.
//
// Successful recommendations are kept per profile for the controller's
// lifetime, so switching topics re-reveals without another generation call.
type Controller struct {
	rec      Recommender
	revealer Revealer
	filter   bool
	log      *logger.Logger

	mu     sync.Mutex
	token  uint64
	cancel context.CancelFunc
	memo   map[string]sanitize.Recommendation
	wg     sync.WaitGroup
}

// NewController creates a controller. filter narrows each topic to the lines
// that mention its keyword.
func NewController(rec Recommender, revealer Revealer, filter bool, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		rec:      rec,
		revealer: revealer,
		filter:   filter,
		log:      log.With("component", "controller"),
		memo:     make(map[string]sanitize.Recommendation),
	}
}

// SelectTopic supersedes any in-flight request and reveals t for profileID.
// The current reveal stops before SelectTopic returns. It returns the
// request token.
func (c *Controller) SelectTopic(ctx context.Context, profileID string, t topic.Topic) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token++
	token := c.token
	c.stopLocked()

	if rec, ok := c.memo[profileID]; ok {
		c.revealLocked(t, rec)
		return token
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.run(runCtx, token, profileID, t)
	return token
}

// Forget drops the kept recommendation for profileID.
func (c *Controller) Forget(profileID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.memo, profileID)
}

// Cancel stops the current reveal and drops any in-flight request.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token++
	c.stopLocked()
}

// Close cancels in-flight work and waits for it to finish.
func (c *Controller) Close() {
	c.Cancel()
	c.wg.Wait()
}

func (c *Controller) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.revealer.Cancel()
}

func (c *Controller) run(ctx context.Context, token uint64, profileID string, t topic.Topic) {
	defer c.wg.Done()

	rec, err := c.rec.Recommend(ctx, profileID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.token {
		c.log.Debug("dropping stale result", "request", token, "latest", c.token, "topic", t.Name)
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	switch {
	case errors.Is(err, context.Canceled):
		return
	case IsValidation(err):
		c.revealer.Fail(t.Name, UserMessage(err))
		return
	case err != nil && rec.Stage != sanitize.StageFailed:
		c.log.Error("recommendation failed", "topic", t.Name, "error", err)
		c.revealer.Fail(t.Name, UserMessage(err))
		return
	}

	if rec.Stage != sanitize.StageFailed {
		c.memo[profileID] = rec
	}
	c.revealLocked(t, rec)
}

func (c *Controller) revealLocked(t topic.Topic, rec sanitize.Recommendation) {
	c.revealer.Select(t.Name, Lines(rec, t, c.filter))
}

// Lines segments the section of rec that t reads from.
func Lines(rec sanitize.Recommendation, t topic.Topic, filter bool) []string {
	field := rec.Diet
	if t.Section == topic.Exercise {
		field = rec.Exercise
	}
	if rec.Stage == sanitize.StageFailed || !filter {
		return segment.Segment(field, "")
	}
	return segment.Segment(field, t.Keyword)
}

// UserMessage is a short explanation of err fit for a viewer.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingProfileID):
		return "Pick a profile first."
	case errors.Is(err, profile.ErrNotFound):
		return "That profile does not exist."
	case errors.Is(err, ErrNoGenerator):
		return "No model is configured."
	case IsUpstream(err):
		return sanitize.FailureMessage
	default:
		return "Something went wrong while preparing your recommendations."
	}
}
