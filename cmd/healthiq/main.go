package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sant0-9/healthiq/internal/config"
	"github.com/sant0-9/healthiq/internal/llm"
	"github.com/sant0-9/healthiq/internal/logger"
	"github.com/sant0-9/healthiq/internal/pipeline"
	"github.com/sant0-9/healthiq/internal/profile"
	"github.com/sant0-9/healthiq/internal/prompts"
)

var version = "dev"

var (
	// Global flags
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:     "healthiq",
	Short:   "Personalized diet and exercise recommendations",
	Version: version,
	Long: `healthiq turns a stored user profile into diet and exercise advice from a
language model, cleans up whatever the model answers, and reveals it topic
by topic.

Run "healthiq serve" for the HTTP API or "healthiq tui" for the terminal viewer.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.config/healthiq/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(promptsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every command shares once config is resolved.
type env struct {
	cfg   *config.Config
	log   *logger.Logger
	store *profile.Store
}

// setup resolves config, builds the logger and opens the profile store.
// logFile redirects logging away from the terminal.
func setup(logFile string) (*env, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	mode := cfg.Log.Mode
	if verbose {
		mode = "dev"
	}
	path := cfg.Log.Path
	if logFile != "" && path == "" {
		path = logFile
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	log, err := logger.New(mode, path)
	if err != nil {
		return nil, err
	}

	if cfg.PromptsDir != "" {
		loaded, err := prompts.LoadDir(cfg.PromptsDir)
		if err != nil {
			log.Warn("some prompt templates were skipped", "dir", cfg.PromptsDir, "error", err)
		}
		if len(loaded) > 0 {
			log.Debug("loaded prompt templates", "count", len(loaded))
		}
	}
	if cfg.Template == "" {
		cfg.Template = prompts.DefaultVersion
	}
	if !slices.Contains(prompts.Versions(), cfg.Template) {
		return nil, fmt.Errorf("%w: %q (have %v)", prompts.ErrUnknownTemplate, cfg.Template, prompts.Versions())
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	store, err := profile.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, log: log, store: store}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("close store", "error", err)
	}
	e.log.Sync()
}

// provider builds the configured model provider.
func (e *env) provider(ctx context.Context) (llm.Provider, error) {
	p, err := llm.NewProvider(ctx, e.cfg)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", e.cfg.Provider, err)
	}
	return p, nil
}

// newPipeline wires store, provider and prompt template together. A provider
// that cannot be built leaves the pipeline without a generator so the
// caller still answers validation errors.
func (e *env) newPipeline(ctx context.Context) (*pipeline.Pipeline, llm.Provider) {
	p, err := e.provider(ctx)
	if err != nil {
		e.log.Error("no generation client", "error", err)
		return pipeline.New(e.store, nil, e.cfg.Template, e.log), nil
	}
	client := llm.NewClient(p, e.cfg.Model, prompts.SystemPrompt, e.cfg.Timeout, e.log)
	return pipeline.New(e.store, client, e.cfg.Template, e.log), p
}
