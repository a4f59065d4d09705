package commands

import (
	"github.com/spf13/cobra"

	"github.com/mrferris/genesis/internal/config"
	"github.com/mrferris/genesis/internal/executor"
)

// NewRecreateCommand regenerates every non-fixed secret in the plan
// from scratch, discarding whatever is already stored; fixed secrets
// are left untouched. Destructive, so it confirms upfront unless
// --no-prompt is given.
func NewRecreateCommand(cfg *config.Config) *cobra.Command {
	flags := &actionFlags{}

	cmd := &cobra.Command{
		Use:   "recreate",
		Short: "Regenerate every non-fixed secret in the plan, discarding existing values",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cfg, flags, executor.ActionRecreate)
		},
	}

	flags.register(cmd, false)
	return cmd
}
