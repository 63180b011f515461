package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/restomart/toast-etl/modules/pos/infrastructure/persistence"
	"github.com/restomart/toast-etl/pkg/configuration"
)

func newDropCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop every table this tool owns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return withCode(exitUsage, errors.New("refusing to drop tables without --yes"))
			}

			conf := configuration.Use()
			defer conf.Unload()

			ctx := cmd.Context()
			db, err := persistence.Open(ctx, conf.Database.Opts)
			if err != nil {
				return withCode(exitDB, err)
			}
			defer func() { _ = db.Close() }()

			if err := persistence.DropSchema(ctx, db); err != nil {
				return withCode(exitDB, err)
			}
			conf.Logger().Info("all tables dropped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm dropping all tables")
	return cmd
}
