package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env is fine; flags and the environment still apply
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "edgestats",
		Short:         "Association statistics for knowledge-graph edges",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newPanelCmd(),
		newTableCmd(),
		newMatrixCmd(),
		newBatchCmd(),
		newExportCmd(),
		newImportCmd(),
		newMigrateCmd(),
	)
	return rootCmd
}
