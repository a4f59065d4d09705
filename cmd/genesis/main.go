package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrferris/genesis/cmd/genesis/commands"
	"github.com/mrferris/genesis/internal/config"
	"github.com/mrferris/genesis/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile     string
		noColor        bool
		debug          bool
		nonInteractive bool
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "genesis",
		Short: "Manage deployment secrets across environments",
		Long: `genesis turns per-environment kit metadata into secret-store
operations: planning what a deployment needs, adding/recreating/renewing/
removing secrets, and validating what is already stored.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Path = configFile
			cfg.Logger = logging.New(debug, noColor)
			cfg.NonInteractive = nonInteractive
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "genesis.yml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Disable interactive per-item prompting")

	rootCmd.AddCommand(
		commands.NewPlanCommand(cfg),
		commands.NewAddCommand(cfg),
		commands.NewRecreateCommand(cfg),
		commands.NewRenewCommand(cfg),
		commands.NewRemoveCommand(cfg),
		commands.NewCheckCommand(cfg),
		commands.NewDoctorCommand(cfg),
	)

	return rootCmd.Execute()
}
