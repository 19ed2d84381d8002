package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/lingo-api/internal/observability"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

// tracingFlushTimeout bounds the final span export on shutdown.
const tracingFlushTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := logger.Setup(cfg.Server)
			if err != nil {
				return err
			}
			log.Info("server configuration loaded",
				slog.Int("port", cfg.Server.Port),
				slog.String("log_level", cfg.Server.LogLevel),
				slog.Bool("tracing_enabled", cfg.Tracing.Enabled))

			shutdownTracing, err := observability.InitTracing(ctx, log, cfg.Tracing)
			if err != nil {
				return err
			}
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tracingFlushTimeout)
				defer cancel()
				if err := shutdownTracing(flushCtx); err != nil {
					log.Warn("failed to flush traces", slog.String("error", err.Error()))
				}
			}()

			app, err := openApplication(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer app.cleanup()

			if migrate {
				if err := postgres.RunMigrations(ctx, app.db, log, "up"); err != nil {
					return err
				}
			}

			return app.Run(ctx)
		},
	}

	cmd.Flags().Int("port", 0, "override server.port")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}
