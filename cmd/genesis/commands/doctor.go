package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mrferris/genesis/internal/config"
)

// NewDoctorCommand probes every configured environment's store for
// reachability, without touching any secret.
func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check store connectivity for one or every configured environment",
		Long: `doctor loads genesis.yml and probes each environment's store
target (or just --env's, if given) with a lightweight status call,
reporting which ones are reachable and authenticated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger.Info("Checking genesis configuration...")
			if err := cfg.Load(); err != nil {
				return err
			}
			cfg.Logger.Info("Configuration loaded successfully")

			names := []string{envName}
			if envName == "" {
				names = nil
				for name := range cfg.Definition.Environments {
					names = append(names, name)
				}
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(w, "ENVIRONMENT\tTARGET\tSTATUS\n")
			_, _ = fmt.Fprintf(w, "-----------\t------\t------\n")

			failures := 0
			for _, name := range names {
				env, err := cfg.GetEnvironment(name)
				if err != nil {
					_, _ = fmt.Fprintf(w, "%s\t-\t%v\n", name, err)
					failures++
					continue
				}

				pl, err := buildPipeline(cfg, name)
				if err != nil {
					_, _ = fmt.Fprintf(w, "%s\t%s\tconfig error: %v\n", name, env.Store.Target, err)
					failures++
					continue
				}

				status := "OK"
				if err := pl.client.Status(context.Background()); err != nil {
					status = fmt.Sprintf("FAILED: %v", err)
					failures++
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", name, env.Store.Target, status)
			}
			_ = w.Flush()

			if failures > 0 {
				return fmt.Errorf("doctor found %d environment(s) with problems", failures)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Check only this environment (default: all configured environments)")

	return cmd
}
