package commands

import (
	"github.com/spf13/cobra"

	"github.com/mrferris/genesis/internal/config"
	"github.com/mrferris/genesis/internal/executor"
)

// NewRemoveCommand deletes every secret in the plan from the store.
// Idempotent: a secret that is already gone is not an error.
func NewRemoveCommand(cfg *config.Config) *cobra.Command {
	flags := &actionFlags{}

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete every secret in the plan from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cfg, flags, executor.ActionRemove)
		},
	}

	flags.register(cmd, false)
	return cmd
}
