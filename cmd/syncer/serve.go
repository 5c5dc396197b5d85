package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"insta_syncer/internal/api"
	"insta_syncer/internal/scheduler"
	"insta_syncer/internal/service"
	"insta_syncer/internal/storage/postgres"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the window scheduler and the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			svc, err := ctx.syncService()
			if err != nil {
				return err
			}
			cfg, logger := ctx.config, ctx.logger

			if !skipMigrate {
				version, err := postgres.RunMigrations(ctx.db)
				if err != nil {
					return err
				}
				logger.Info("database schema up to date", "version", version)
			}

			if orphaned, err := svc.OrphanedAttempts(cmd.Context(), service.DefaultOrphanAge); err != nil {
				logger.Warn("failed to check orphaned attempts", "error", err)
			} else if len(orphaned) > 0 {
				logger.Warn("attempts left running by a previous process", "count", len(orphaned))
			}

			runCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			handler := api.NewHandler(svc, ctx.db)
			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           api.NewServer(handler, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			sched := scheduler.NewScheduler(svc, ctx.gate, cfg.Sync.CheckInterval, logger)

			errCh := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- fmt.Errorf("http server: %w", err)
				}
			}()

			schedDone := make(chan struct{})
			go func() {
				defer close(schedDone)
				if err := sched.Start(runCtx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("scheduler error", "error", err)
				}
			}()

			logger.Info("starting insta syncer",
				"addr", cfg.HTTP.Addr,
				"windows", cfg.Sync.Windows,
				"timezone", cfg.Sync.Timezone,
				"batch_size", cfg.Sync.BatchSize,
				"rabbitmq", cfg.RabbitMQ.Enabled,
			)

			var runErr error
			select {
			case <-runCtx.Done():
				logger.Info("received shutdown signal")
			case runErr = <-errCh:
			}
			cancel()

			shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("http shutdown incomplete, waiting for triggered runs", "error", err)
			}
			handler.Wait()
			<-schedDone

			return runErr
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not apply schema migrations on startup")
	return cmd
}
