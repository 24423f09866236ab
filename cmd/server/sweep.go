package main

import (
	"jobboard/internal/app"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired job postings once",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		c, err := app.NewContainer(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		n, err := c.Scheduler.SweepOnce(cmd.Context())
		if err != nil {
			return err
		}
		log.Info("sweep finished", zap.Int64("deleted", n))
		return nil
	},
}
