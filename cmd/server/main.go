package main

import (
	"fmt"
	"os"

	"jobboard/internal/config"
	"jobboard/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "jobboard",
	Short: "Job board API server",
	Long: `Job board API server.

Available commands:
  serve   - Start the HTTP API, websocket feed and expiry sweeper (default)
  migrate - Apply pending database migrations and exit
  sweep   - Delete expired postings once and exit
  seed    - Load development fixtures`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, sweepCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the process logger.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.New(cfg.App.Environment)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
