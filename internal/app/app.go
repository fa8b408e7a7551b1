// Package app assembles the assistant session and its collaborators from
// configuration. Every binary builds its session through Build.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/config"
	"github.com/gcet-assistant/backend/internal/events"
	"github.com/gcet-assistant/backend/internal/model/profile"
	"github.com/gcet-assistant/backend/internal/service/ai"
	"github.com/gcet-assistant/backend/internal/service/assistant"
	chatservice "github.com/gcet-assistant/backend/internal/service/chat"
	"github.com/gcet-assistant/backend/internal/service/content"
	"github.com/gcet-assistant/backend/internal/service/fallback"
	profileservice "github.com/gcet-assistant/backend/internal/service/profile"
	"github.com/gcet-assistant/backend/internal/service/remote"
	"github.com/gcet-assistant/backend/internal/service/speech"
	"github.com/gcet-assistant/backend/internal/storage"
)

// App owns a running assistant session.
type App struct {
	Assistant *assistant.Assistant
	Speech    *speech.Service
	Fallback  *fallback.Chain
	Options   profile.Options

	slots storage.Slots
	hub   *events.Hub
}

// Build opens storage, loads both stores and wires the fallback chain in
// order: remote query, generative, local heuristic. Steps without
// configuration are left out.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	slots, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Dir, cfg.Storage.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	transcript := chatservice.NewStore(slots, logger)
	if err := transcript.Load(ctx); err != nil {
		logger.Warn("welcome message not persisted", zap.Error(err))
	}
	profiles := profileservice.NewStore(slots, logger)
	profiles.Load(ctx)

	source, err := contentSource(cfg.Content)
	if err != nil {
		slots.Close()
		return nil, err
	}
	resolver := content.NewResolver(source)
	options := profile.Seed()

	var strategies []fallback.Strategy
	if cfg.Remote.Enabled() {
		client := remote.NewClient(cfg.Remote.QueryURL, cfg.Remote.Timeout)
		strategies = append(strategies, fallback.NewRemoteStrategy(client, resolver, logger))
	}
	provider, err := ai.NewProvider(ctx, cfg)
	switch {
	case errors.Is(err, ai.ErrNoCredential):
		logger.Info("generative replies disabled: no credential configured")
	case err != nil:
		logger.Warn("generative provider unavailable", zap.String("provider", cfg.AI.Provider), zap.Error(err))
	default:
		strategies = append(strategies, fallback.NewGenerativeStrategy(provider, options, fallback.GenerationParams{
			Temperature:     cfg.AI.Temperature,
			MaxOutputTokens: cfg.AI.MaxOutputTokens,
			TopP:            cfg.AI.TopP,
			Timeout:         cfg.AI.Timeout,
		}, logger))
	}
	strategies = append(strategies, fallback.NewHeuristicStrategy(resolver, nil, logger))
	chain := fallback.NewChain(logger, strategies...)

	hub := events.NewHub(32)
	a := assistant.New(assistant.Deps{
		Transcript: transcript,
		Profiles:   profiles,
		Resolver:   resolver,
		Fallback:   chain,
		Hub:        hub,
		Defaults: profile.UserContext{
			Branch:   cfg.Defaults.Branch,
			Semester: cfg.Defaults.Semester,
			Batch:    cfg.Defaults.Batch,
		},
		Logger: logger,
	})

	logger.Info("assistant ready",
		zap.String("session", a.Session().ID),
		zap.String("storage", cfg.Storage.Driver),
		zap.Strings("fallback", chain.Names()),
		zap.Bool("speech", cfg.Speech.Enabled()),
	)

	return &App{
		Assistant: a,
		Speech:    speech.NewService(cfg.Speech, logger),
		Fallback:  chain,
		Options:   options,
		slots:     slots,
		hub:       hub,
	}, nil
}

func contentSource(cfg config.ContentConfig) (content.Source, error) {
	mock := content.NewMockSource()
	if cfg.Catalog == "" {
		return mock, nil
	}
	catalog, err := content.LoadCatalog(cfg.Catalog, mock)
	if err != nil {
		return nil, fmt.Errorf("load content catalog: %w", err)
	}
	return catalog, nil
}

// Close ends event subscriptions and releases storage.
func (a *App) Close() error {
	a.hub.Close()
	return a.slots.Close()
}
