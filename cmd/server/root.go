package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"log-level": "server.log_level",
	"port":      "server.port",
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lingo-api",
		Short:         "Vocabulary flashcards with spaced repetition",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("log-level", "", "override server.log_level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newIngestCmd(),
		newDueCmd(),
		newTokenCmd(),
	)
	return root
}

// loadConfig loads configuration with any explicitly set flags applied on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	cfg, err := config.LoadWith(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// cliLogger returns a JSON logger for operator commands. It writes to w so
// command output on stdout stays machine-readable.
func cliLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, _ := logger.ParseLevel(cfg.Server.LogLevel)
	return logger.New(w, level)
}

// openApplication connects to the database and wires the services.
// The returned application must be cleaned up by the caller.
func openApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	app, err := newApplication(cfg, log, postgresStorage(db, log))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	app.db = db
	return app, nil
}
