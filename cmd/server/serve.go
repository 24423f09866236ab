package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"jobboard/internal/app"
	"jobboard/internal/database/migration"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, c, err := app.Bootstrap(ctx, cfg, log)
	if err != nil {
		return errors.Wrap(err, "bootstrap")
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("cleanup failed", zap.Error(err))
		}
	}()

	if cfg.App.MigrateOnStart {
		n, err := migration.Runner{Logger: log}.Run(ctx, c.DB)
		if err != nil {
			return errors.Wrap(err, "migrate")
		}
		log.Info("migrations applied", zap.Int("count", n))
	}

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		return err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go c.Hub.Run(hubCtx)

	if err := c.Scheduler.Start(ctx); err != nil {
		return err
	}
	defer c.Scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", addr))
		errCh <- a.Fiber.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "http server")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn("http shutdown failed", zap.Error(err))
	}
	return nil
}
