package main

import (
	"context"
	"io/fs"

	root "wellflow"
	"wellflow/internal/config"
	"wellflow/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCommand constructs the 'migrate' subcommand that applies the embedded
// runs schema and the River queue schema.
func migrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates database to the latest version",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			migrations, err := fs.Sub(root.Migrations, "migrations")
			if err != nil {
				logger.Fatal(ctx, "could not open embedded migrations", zap.Error(err))
			}

			res, err := strg.Migrate(ctx, migrations)
			if err != nil {
				logger.Fatal(ctx, "could not migrate database", zap.Error(err))
			}
			if len(res.Runs) == 0 && len(res.Queue) == 0 {
				logger.Info(ctx, "database is up to date")
			}
		},
	}

	return cmd
}
