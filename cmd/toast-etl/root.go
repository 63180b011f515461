package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "toast-etl",
		Short:         "Load Toast POS export files into Postgres",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Bare invocation runs a full load, matching the original
		// single-entry-point behavior.
		RunE: runLoad,
	}
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newDropCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitCode(err))
	}
}
