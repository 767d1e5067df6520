package main

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sant0-9/healthiq/internal/config"
	"github.com/sant0-9/healthiq/internal/tui"
)

var tuiProfile string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse recommendations in the terminal",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiProfile, "profile", "p", "", "Profile id (default: pick from a list)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	logFile := "healthiq.log"
	if dir, err := config.ConfigDir(); err == nil {
		logFile = filepath.Join(dir, "healthiq.log")
	}
	e, err := setup(logFile)
	if err != nil {
		return err
	}
	defer e.Close()

	pl, provider := e.newPipeline(context.Background())
	app := tui.NewApp(tui.Options{
		Recommender:  pl,
		Profiles:     e.store,
		Provider:     provider,
		ProfileID:    tuiProfile,
		Interval:     e.cfg.Reveal.Interval,
		FilterTopics: e.cfg.Reveal.FilterTopics,
		Log:          e.log,
	})
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	app.SetProgram(p)

	_, err = p.Run()
	app.Close()
	return err
}
