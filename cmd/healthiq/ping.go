package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the configured model provider is reachable",
	RunE:  runPing,
}

func runPing(cmd *cobra.Command, args []string) error {
	e, err := setup("")
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p, err := e.provider(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", p.Name(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) ok in %s\n", p.Name(), e.cfg.Model, time.Since(start).Round(time.Millisecond))
	return nil
}
