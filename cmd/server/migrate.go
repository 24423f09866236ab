package main

import (
	"context"
	"time"

	"jobboard/internal/database/migration"
	dbpostgres "jobboard/internal/database/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		n, err := migration.Runner{Logger: log}.Run(ctx, db)
		if err != nil {
			return err
		}
		log.Info("migrations applied", zap.Int("count", n))
		return nil
	},
}
