package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scrapbird/holidayfinder/internal/cache"
	"github.com/scrapbird/holidayfinder/internal/config"
	"github.com/scrapbird/holidayfinder/internal/ingest"
	"github.com/scrapbird/holidayfinder/internal/obs"
	"github.com/scrapbird/holidayfinder/internal/query"
	"github.com/scrapbird/holidayfinder/internal/snapshot"
	"github.com/scrapbird/holidayfinder/internal/surface"
)

var serveCmd = &cobra.Command{
	Use: "serve",
	Short: "Ingest the configured sources and serve search queries over HTTP",
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := obs.NewZap(prodLog)
	if err != nil {
		return err
	}

	mgr := snapshot.NewManager()

	logger.Log("info", "starting initial ingest")
	in := ingest.New(cfg, logger, nil)
	snap, err := in.Run(context.Background())
	if err != nil {
		return err
	}
	mgr.Swap(snap)
	logger.Log("info", "initial ingest complete, snapshot published")

	planner := query.NewPlanner(
		time.Duration(cfg.Query.DeadlineMs)*time.Millisecond,
		cfg.Query.MaxResultsBestPerHotel,
		cfg.Query.MaxResultsPerHotel,
	)
	rc := cache.New(
		time.Duration(cfg.ResultCache.TTLMs)*time.Millisecond,
		cfg.ResultCache.MaxEntries,
		time.Duration(cfg.ResultCache.SweepMs)*time.Millisecond,
		logger,
	)
	defer rc.Close()

	srv := surface.NewServer(mgr, planner, rc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: srv.Router(),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Log("info", "listening on "+cfg.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Log("info", "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
