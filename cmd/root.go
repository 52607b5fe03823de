// Package cmd implements the jarvis command-line interface.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jarvishq/jarvis/internal/log"
)

var (
	verbose bool
	logJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "jarvis",
	Short: "Jarvis - a personal assistant that answers from your own documents",
	Long: `Jarvis indexes documents into PostgreSQL + pgvector and answers
questions about them with retrieval-augmented generation.

Run "jarvis serve" to start the HTTP API, "jarvis ask" for a one-shot
question, or "jarvis seed" to load the sample corpus.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log in JSON format")
}

// newLogger builds the process logger from the global flags.
func newLogger() log.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level, JSON: logJSON})
}
