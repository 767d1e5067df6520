package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sant0-9/healthiq/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recommendation and profile API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides http.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := setup("")
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pl, _ := e.newPipeline(ctx)
	router := server.NewRouter(server.RouterConfig{
		Recommender:    pl,
		Profiles:       e.store,
		AllowedOrigins: e.cfg.HTTP.AllowedOrigins,
		StrictUpstream: e.cfg.HTTP.StrictUpstream,
		FilterTopics:   e.cfg.Reveal.FilterTopics,
		RevealInterval: e.cfg.Reveal.Interval,
		Log:            e.log,
	})

	addr := e.cfg.HTTP.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	e.log.Info("starting", "version", version, "provider", e.cfg.Provider, "model", e.cfg.Model)
	return server.New(addr, router, e.log).Run(ctx)
}
