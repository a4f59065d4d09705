package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mrferris/genesis/internal/config"
)

// NewPlanCommand shows what the dependency resolver decided, without
// touching the store: which path gets which kind, signed by what, and
// in what order they would be generated.
func NewPlanCommand(cfg *config.Config) *cobra.Command {
	var (
		envName    string
		outputJSON bool
		elements   []string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the resolved plan for an environment without touching the store",
		Long: `plan parses an environment's kit metadata, resolves signer
dependencies, and prints the resulting build order. No secret values
are read or written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := buildPipeline(cfg, envName)
			if err != nil {
				return err
			}
			if err := pl.applyFilter(elements); err != nil {
				return err
			}

			if outputJSON {
				return outputPlanJSON(pl)
			}
			return outputPlanTable(pl)
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "Environment name to plan (required)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
	cmd.Flags().StringArrayVar(&elements, "filter", nil, "Restrict the plan to paths matching this filter element (repeatable)")
	_ = cmd.MarkFlagRequired("env")

	return cmd
}

func outputPlanJSON(pl *pipeline) error {
	type item struct {
		Path     string `json:"path"`
		Kind     string `json:"kind"`
		SignedBy string `json:"signed_by,omitempty"`
	}

	items := make([]item, 0, pl.set.Len())
	for _, p := range pl.set.Ordered() {
		items = append(items, item{Path: p.Path, Kind: string(p.Kind), SignedBy: p.SignedBy})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]interface{}{
		"environment": pl.env.Kit,
		"items":       items,
		"total":       len(items),
	})
}

func outputPlanTable(pl *pipeline) error {
	items := pl.set.Ordered()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "ORDER\tPATH\tKIND\tSIGNED BY\n")
	_, _ = fmt.Fprintf(w, "-----\t----\t----\t---------\n")

	for i, p := range items {
		signedBy := p.SignedBy
		if signedBy == "" {
			signedBy = "-"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, p.Path, p.Kind, signedBy)
	}
	_ = w.Flush()

	fmt.Printf("\n%d item(s) in build order\n", len(items))
	return nil
}
