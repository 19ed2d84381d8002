package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the goose version table.
const MigrationTableName = "schema_migrations"

// migrationsDir is the directory inside the embedded filesystem.
const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// MigrationCommands lists the goose commands RunMigrations accepts.
var MigrationCommands = []string{"up", "down", "status", "version", "reset"}

// MigrationsFS returns the embedded migration files rooted at the migrations directory.
func MigrationsFS() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		// ALLOW-PANIC: the embed directive guarantees the directory exists
		panic(err)
	}
	return sub
}

// RunMigrations executes a goose command against db using the embedded migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger, command string, args ...string) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "migrations"))

	valid := false
	for _, c := range MigrationCommands {
		if c == command {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf(
			"unknown migration command: %s (expected one of %v)",
			command,
			MigrationCommands,
		)
	}

	goose.SetBaseFS(embeddedMigrations)
	goose.SetLogger(&slogGooseLogger{logger: logger})
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	logger.Info("running migration command", slog.String("command", command))
	if err := goose.RunContext(ctx, command, db, migrationsDir, args...); err != nil {
		logger.Error("migration command failed",
			slog.String("command", command),
			slog.String("error", err.Error()))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	logger.Info("migration command completed", slog.String("command", command))
	return nil
}

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method. It does not exit; the
// error is returned to the caller instead.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
