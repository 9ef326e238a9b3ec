package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fekuna/omnipos-wms-service/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfg *config.Config

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wms",
		Short:         "Warehouse management service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load() // Load .env file if it exists
			cfg = config.LoadEnv()
		},
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newReconcileCmd(),
		newTokenCmd(),
	)
	return root
}

// exitError ends the process with code without printing anything further.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }
