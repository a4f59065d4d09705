package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrferris/genesis/internal/cmdexec"
	"github.com/mrferris/genesis/internal/config"
	dserrors "github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/validator"
)

// NewCheckCommand validates what is already in the store against the
// plan's invariants (spec.md §4.F): one export, then per-kind checks,
// with no writes.
func NewCheckCommand(cfg *config.Config) *cobra.Command {
	var (
		envName  string
		elements []string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate stored secrets against the plan's invariants",
		Long: `check exports the environment's secrets once, then runs
per-kind invariant checks against the plan: certificate names and
chains, key agreement, ssh fingerprints, dhparams strength, uuid
recomputation. A failed check never stops the run; the worst outcome
per plan is reported at the end.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := buildPipeline(cfg, envName)
			if err != nil {
				return err
			}
			if err := pl.applyFilter(elements); err != nil {
				return err
			}

			v := validator.New(pl.client, cmdexec.DefaultExecutor())

			reports, err := v.Validate(context.Background(), pl.set, pl.exportPrefixes()...)
			if err != nil {
				return err
			}

			fmt.Print(validator.Format(reports))

			worst := 0
			for _, r := range reports {
				if r.Outcome == dserrors.OutcomeError || r.Outcome == dserrors.OutcomeMissing {
					worst++
				}
			}
			if worst > 0 {
				return fmt.Errorf("check found %d plan(s) with errors or missing secrets", worst)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Environment name to check (required)")
	cmd.Flags().StringArrayVar(&elements, "filter", nil, "Restrict the check to paths matching this filter element (repeatable)")
	_ = cmd.MarkFlagRequired("env")

	return cmd
}
