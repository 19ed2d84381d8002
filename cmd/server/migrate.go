package main

import (
	"fmt"
	"strings"

	"github.com/phrazzld/lingo-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       fmt.Sprintf("migrate [%s]", strings.Join(postgres.MigrationCommands, "|")),
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := cliLogger(cfg, cmd.ErrOrStderr())

			db, err := setupAppDatabase(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return postgres.RunMigrations(ctx, db, log, args[0])
		},
	}
}
