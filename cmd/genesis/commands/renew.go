package commands

import (
	"github.com/spf13/cobra"

	"github.com/mrferris/genesis/internal/config"
	"github.com/mrferris/genesis/internal/executor"
)

// NewRenewCommand re-signs every x509 plan in place, keeping its key
// material. Non-x509 plans are silently skipped — renew has no
// meaning for them.
func NewRenewCommand(cfg *config.Config) *cobra.Command {
	flags := &actionFlags{}

	cmd := &cobra.Command{
		Use:   "renew",
		Short: "Re-sign certificates in the plan, keeping their existing keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cfg, flags, executor.ActionRenew)
		},
	}

	flags.register(cmd, true)
	return cmd
}
