package main

import (
	"github.com/spf13/cobra"

	"github.com/restomart/toast-etl/modules/pos/infrastructure/persistence"
	"github.com/restomart/toast-etl/modules/pos/services"
	"github.com/restomart/toast-etl/pkg/configuration"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Create the schema if needed and load menus, orders and time entries",
		RunE:  runLoad,
	}
}

func runLoad(cmd *cobra.Command, _ []string) error {
	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	ctx := cmd.Context()
	db, err := persistence.Open(ctx, conf.Database.Opts)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer func() { _ = db.Close() }()

	runner := services.NewRunner(db, conf.Exports, logger)
	if _, err := runner.Run(ctx); err != nil {
		return withCode(exitDB, err)
	}
	return nil
}
