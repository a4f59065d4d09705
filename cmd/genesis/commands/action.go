package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrferris/genesis/internal/config"
	"github.com/mrferris/genesis/internal/executor"
	"github.com/mrferris/genesis/internal/progress"
)

// actionFlags holds the flags every action subcommand (add/recreate/
// renew/remove) shares.
type actionFlags struct {
	envName      string
	elements     []string
	noPrompt     bool
	renewSubject string
}

func (f *actionFlags) register(cmd *cobra.Command, includeRenewSubject bool) {
	cmd.Flags().StringVar(&f.envName, "env", "", "Environment name to act on (required)")
	cmd.Flags().StringArrayVar(&f.elements, "filter", nil, "Restrict the run to paths matching this filter element (repeatable)")
	cmd.Flags().BoolVar(&f.noPrompt, "no-prompt", false, "Skip recreate's upfront confirmation")
	if includeRenewSubject {
		cmd.Flags().StringVar(&f.renewSubject, "renew-subject", "", "Re-assert this CN during renew")
	}
	_ = cmd.MarkFlagRequired("env")
}

// runAction builds the pipeline for flags.envName, applies the
// filter, and drives action against it, printing a one-line summary.
func runAction(cfg *config.Config, flags *actionFlags, action executor.Action) error {
	pl, err := buildPipeline(cfg, flags.envName)
	if err != nil {
		return err
	}
	if err := pl.applyFilter(flags.elements); err != nil {
		return err
	}

	ctx := context.Background()

	var sink progress.Sink = progress.NewTerminalSink(cfg.Logger)

	manager, err := buildNotifyManager(pl.env)
	if err != nil {
		return err
	}
	if manager != nil {
		manager.SetLogger(cfg.Logger)
		manager.Start(ctx)
		defer manager.Stop()
		sink = progress.NewNotifyingSink(sink, manager, flags.envName, string(action))
	}

	exec := executor.New(pl.client, sink)

	result := exec.Run(ctx, pl.set, action, executor.Options{
		Interactive:  !cfg.NonInteractive,
		NoPrompt:     flags.noPrompt,
		RenewSubject: flags.renewSubject,
	})

	if result.Aborted {
		return fmt.Errorf("%s aborted: %d succeeded, %d failed before stopping", action, result.Succeeded, result.Failed)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%s completed with failures: %d succeeded, %d failed", action, result.Succeeded, result.Failed)
	}

	return nil
}
