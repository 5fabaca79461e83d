package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"curator/internal/config"
	"curator/internal/daemon"
	"curator/internal/identification"
	"curator/internal/identification/tmdb"
	"curator/internal/library"
	"curator/internal/logging"
	"curator/internal/scanjob"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := library.Open(cfg)
	if err != nil {
		logger.Error("open library store", logging.Error(err))
		return
	}

	matcher := identification.NewMatcher(newSearcher(cfg), logger)
	orchestrator := scanjob.New(cfg, store, matcher, logger)

	d, err := daemon.New(cfg, store, orchestrator, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		_ = store.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("curatord shutting down")
}

// newSearcher returns nil when no API key is configured; the matcher then
// rejects every file with a missing-credential reason instead of failing.
func newSearcher(cfg *config.Config) tmdb.Searcher {
	if cfg.TMDB.APIKey == "" {
		return nil
	}
	client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
	if err != nil {
		log.Fatalf("init title search client: %v", err)
	}
	return client
}
