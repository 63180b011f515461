package main

import (
	"github.com/spf13/cobra"

	"github.com/restomart/toast-etl/modules/pos/infrastructure/persistence"
	"github.com/restomart/toast-etl/pkg/configuration"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations without loading any data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := configuration.Use()
			defer conf.Unload()

			ctx := cmd.Context()
			db, err := persistence.Open(ctx, conf.Database.Opts)
			if err != nil {
				return withCode(exitDB, err)
			}
			defer func() { _ = db.Close() }()

			if err := persistence.EnsureSchema(ctx, db); err != nil {
				return withCode(exitDB, err)
			}
			conf.Logger().Info("schema is up to date")
			return nil
		},
	}
}
