package main

import (
	"context"
	"time"

	dbpostgres "jobboard/internal/database/postgres"
	"jobboard/internal/database/seeder"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load development fixtures (demo accounts and approved jobs)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		return seeder.Runner{Seeders: seeder.Defaults(), Logger: log}.Run(ctx, db)
	},
}
