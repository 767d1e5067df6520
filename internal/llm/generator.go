package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sant0-9/healthiq/internal/logger"
)

var (
	// ErrTimeout means the model did not answer within the generator timeout.
	ErrTimeout = errors.New("generation timed out")
	// ErrService covers every other upstream failure.
	ErrService = errors.New("generation service error")
)

// Generator turns prompt text into raw model output within a bounded time.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client is a Generator backed by a Provider.
type Client struct {
	provider Provider
	model    string
	system   string
	timeout  time.Duration
	log      *logger.Logger
}

func NewClient(provider Provider, model, system string, timeout time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		provider: provider,
		model:    model,
		system:   system,
		timeout:  timeout,
		log:      log.With("component", "generator", "provider", provider.Name()),
	}
}

// Generate returns the model text. Failures wrap ErrTimeout or ErrService;
// cancellation by the caller is returned as the context error.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.provider.Complete(callCtx, NewRequest(c.model, c.system, prompt))
	if err != nil {
		return "", c.classify(ctx, callCtx, err)
	}

	c.log.Debug("generation complete",
		"model", resp.Model,
		"finish_reason", resp.FinishReason,
		"total_tokens", resp.Usage.TotalTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp.Content, nil
}

func (c *Client) classify(parent, callCtx context.Context, err error) error {
	switch {
	case errors.Is(parent.Err(), context.Canceled):
		return parent.Err()
	case errors.Is(callCtx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		c.log.Warn("generation timed out", "timeout", c.timeout.String())
		return fmt.Errorf("%w after %s: %v", ErrTimeout, c.timeout, err)
	default:
		c.log.Warn("generation failed", "error", err)
		return fmt.Errorf("%w: %v", ErrService, err)
	}
}
