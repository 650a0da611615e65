package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskrelay/internal/config"
	"taskrelay/internal/logging"
)

const version = "1.0.0"

var (
	// Global flags
	configPath string
	verbose    bool
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "taskrelay - file-backed command relay and remote executor",
	Long: `taskrelay connects a coordinator to a remote executor through a
file-backed command/result queue served over HTTP.

The relay server ("relay serve") stores command and result documents as
YAML files and exposes CRUD+list endpoints behind a bearer token, plus an
operator dashboard under /ui/.

The executor ("relay exec") polls the relay for pending commands, runs
each one against a local sandbox directory, and reports the outcome back
to the result collection under the same filename.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Initialize(verbose); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

// versionCmd prints the build version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the taskrelay version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taskrelay %s\n", version)
	},
}

// loadConfig reads and validates the configuration for subcommands.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "relay.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
