package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/enrollr/internal/api"
	"github.com/mark3labs/enrollr/internal/config"
	"github.com/mark3labs/enrollr/internal/draft"
	"github.com/mark3labs/enrollr/internal/kv"
	"github.com/mark3labs/enrollr/internal/logger"
	"github.com/spf13/cobra"
)

const httpTimeout = 15 * time.Second

// env holds the collaborators every command shares.
type env struct {
	cfg      *config.Config
	store    kv.Store
	drafts   *draft.Store
	services *api.Services
}

// openEnv loads configuration and opens draft storage and the service client.
func openEnv(ctx context.Context, cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logger: %w", err)
	}

	store, err := kv.Open(ctx, cfg.DraftBackend, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open draft storage: %w", err)
	}
	logger.Debug("using %s draft storage in %s", cfg.DraftBackend, cfg.DataDir)

	return &env{
		cfg:      cfg,
		store:    store,
		drafts:   draft.New(store, draft.WithQuietPeriod(cfg.AutosaveQuiet)),
		services: api.NewServices(api.NewClient(httpTimeout), cfg.API1, cfg.API2),
	}, nil
}

// Close writes pending drafts and releases storage.
func (e *env) Close() {
	e.drafts.FlushAll()
	if err := e.store.Close(); err != nil {
		logger.Warn("closing draft storage: %v", err)
	}
}
