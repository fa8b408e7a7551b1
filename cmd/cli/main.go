// Command assistant is a terminal client for the GCET academic assistant.
// It drives the same session, storage and fallback chain as the API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gcet-assistant/backend/internal/app"
	"github.com/gcet-assistant/backend/internal/config"
	"github.com/gcet-assistant/backend/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	c := newCLI()
	err := c.root().ExecuteContext(ctx)
	c.close()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

type cli struct {
	verbose bool
	logger  *zap.Logger
	app     *app.App
}

func newCLI() *cli {
	return &cli{}
}

func (c *cli) root() *cobra.Command {
	root := &cobra.Command{
		Use:   "assistant",
		Short: "Chat with the GCET academic assistant",
		Long: `Ask about your timetable, exam schedule or study materials.

Run without arguments to start an interactive chat. The transcript and your
profile are stored locally and shared with the API server when both use the
same STORAGE_* settings.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.open,
		RunE:              c.runChat,
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		c.chatCmd(),
		c.askCmd(),
		c.historyCmd(),
		c.clearCmd(),
		c.profileCmd(),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command, _ []string) error {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	c.logger, err = logging.New(level, c.verbose)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(c.logger)
	if envErr != nil {
		c.logger.Debug("no .env file loaded", zap.Error(envErr))
	}

	c.app, err = app.Build(cmd.Context(), cfg, c.logger)
	return err
}

func (c *cli) close() {
	if c.app != nil {
		if err := c.app.Close(); err != nil && c.logger != nil {
			c.logger.Warn("close storage", zap.Error(err))
		}
		c.app = nil
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
