package commands

import (
	"github.com/spf13/cobra"

	"github.com/mrferris/genesis/internal/config"
	"github.com/mrferris/genesis/internal/executor"
)

// NewAddCommand generates every secret in the plan that does not
// already exist in the store, leaving existing secrets untouched.
func NewAddCommand(cfg *config.Config) *cobra.Command {
	flags := &actionFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Generate any secrets the plan needs that don't already exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cfg, flags, executor.ActionAdd)
		},
	}

	flags.register(cmd, false)
	return cmd
}
