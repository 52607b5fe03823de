package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jarvishq/jarvis/internal/app"
	"github.com/jarvishq/jarvis/internal/config"
	"github.com/jarvishq/jarvis/internal/rag"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Index the built-in sample corpus",
	Long: `Seed embeds the built-in sample documents and stores them in the
database. Document IDs are fixed, so re-running seed refreshes the
same rows instead of duplicating them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	count, err := a.Engine.IndexDocuments(ctx, rag.SampleDocuments())
	if err != nil {
		return fmt.Errorf("indexing sample documents: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d sample documents\n", count)
	return nil
}
