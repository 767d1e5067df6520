package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sant0-9/healthiq/internal/llm"
	"github.com/sant0-9/healthiq/internal/logger"
	"github.com/sant0-9/healthiq/internal/profile"
	"github.com/sant0-9/healthiq/internal/prompts"
	"github.com/sant0-9/healthiq/internal/sanitize"
)

var (
	// ErrMissingProfileID is returned when the request carries no profile id.
	ErrMissingProfileID = errors.New("profile id is required")
	// ErrNoGenerator means the pipeline was built without a generation client.
	ErrNoGenerator = errors.New("no generation client configured")
)

// Stage represents a pipeline stage
type Stage int

const (
	StageFetching Stage = iota
	StagePrompting
	StageGenerating
	StageSanitizing
	StageDone
)

const totalStages = 4

func (s Stage) String() string {
	switch s {
	case StageFetching:
		return "Fetching"
	case StagePrompting:
		return "Prompting"
	case StageGenerating:
		return "Generating"
	case StageSanitizing:
		return "Sanitizing"
	case StageDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Progress represents pipeline progress
type Progress struct {
	Stage       Stage
	StageIndex  int
	TotalStages int
	Message     string
}

// Pipeline turns a profile id into a sanitized recommendation.
type Pipeline struct {
	profiles   profile.Gateway
	generator  llm.Generator
	template   string
	log        *logger.Logger
	onProgress func(Progress)
}

// New creates a pipeline. template is a prompts version; empty means the default.
func New(profiles profile.Gateway, generator llm.Generator, template string, log *logger.Logger) *Pipeline {
	if template == "" {
		template = prompts.DefaultVersion
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		profiles:  profiles,
		generator: generator,
		template:  template,
		log:       log.With("component", "pipeline"),
	}
}

// SetProgressCallback sets the progress callback
func (p *Pipeline) SetProgressCallback(fn func(Progress)) {
	p.onProgress = fn
}

func (p *Pipeline) progress(stage Stage, message string) {
	if p.onProgress != nil {
		p.onProgress(Progress{
			Stage:       stage,
			StageIndex:  int(stage),
			TotalStages: totalStages,
			Message:     message,
		})
	}
}

// Recommend fetches the profile, prompts the model and sanitizes the answer.
//
// Validation problems (ErrMissingProfileID, profile.ErrNotFound) return an
// empty recommendation. A failed generation still returns the degraded
// recommendation from the sanitizer, together with an error wrapping
// llm.ErrTimeout or llm.ErrService. Cancellation returns the context error.
func (p *Pipeline) Recommend(ctx context.Context, profileID string) (sanitize.Recommendation, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return sanitize.Recommendation{}, ErrMissingProfileID
	}

	p.progress(StageFetching, "Loading profile...")
	prof, err := p.profiles.Fetch(ctx, profileID)
	if err != nil {
		return sanitize.Recommendation{}, fmt.Errorf("fetch profile %s: %w", profileID, err)
	}
	// validation errors stay answerable without a model
	if p.generator == nil {
		return sanitize.Recommendation{}, ErrNoGenerator
	}

	p.progress(StagePrompting, "Building prompt...")
	prompt, err := prompts.Build(prof, p.template)
	if err != nil {
		return sanitize.Recommendation{}, fmt.Errorf("build prompt: %w", err)
	}

	p.progress(StageGenerating, "Asking the model...")
	start := time.Now()
	text, genErr := p.generator.Generate(ctx, prompt)
	if genErr != nil && errors.Is(genErr, context.Canceled) {
		return sanitize.Recommendation{}, genErr
	}

	p.progress(StageSanitizing, "Cleaning up the answer...")
	rec := sanitize.Sanitize(sanitize.FromResult(text, genErr))

	log := p.log.With("profile_id", profileID, "stage", rec.Stage.String(),
		"duration_ms", time.Since(start).Milliseconds())
	switch {
	case genErr != nil:
		log.Error("generation failed", "error", genErr)
	case rec.Stage.Degraded():
		log.Warn("model output degraded")
	default:
		log.Info("recommendation ready")
	}

	p.progress(StageDone, "Done")

	if genErr != nil {
		return rec, fmt.Errorf("generate: %w", genErr)
	}
	return rec, nil
}

// IsValidation reports whether err is a client-side problem that retrying
// will not fix.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingProfileID) || errors.Is(err, profile.ErrNotFound)
}

// IsUpstream reports whether err came from the generation client.
func IsUpstream(err error) bool {
	return errors.Is(err, llm.ErrTimeout) || errors.Is(err, llm.ErrService)
}
