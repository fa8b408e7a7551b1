package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gcet-assistant/backend/internal/app"
	"github.com/gcet-assistant/backend/internal/config"
	"github.com/gcet-assistant/backend/internal/handler"
	"github.com/gcet-assistant/backend/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Warn("no .env file loaded, using process environment", zap.Error(envErr))
	}

	session, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	addr, err := cfg.Server.Addr()
	if err != nil {
		return err
	}

	router := handler.NewRouter(session.Assistant, session.Speech, handler.Options{
		CORSOrigins:    cfg.Server.CORSOrigins,
		SpeechLanguage: cfg.Speech.Language,
		ProfileOptions: session.Options,
	}, logger)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("GCET assistant listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// Open SSE streams block Shutdown until their subscriptions end.
		session.Assistant.Events().Close()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
