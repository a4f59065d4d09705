package validator

import (
	"fmt"
	"os"
	"strings"
)

// Format renders reports as a readable summary. When
// GENESIS_HIDE_PROBLEMATIC_SECRETS is set, each plan's checks that are
// better than its worst outcome are suppressed, so a broken plan's
// report shows only the failing check(s) (spec.md §4.F).
func Format(reports []*Report) string {
	hideBetterThanWorst := os.Getenv("GENESIS_HIDE_PROBLEMATIC_SECRETS") != ""

	var b strings.Builder
	for _, r := range reports {
		fmt.Fprintf(&b, "%s [%s]: %s\n", r.Path, r.Kind, r.Outcome)
		for _, c := range r.Checks {
			if hideBetterThanWorst && c.Outcome != r.Outcome {
				continue
			}
			if c.Message != "" {
				fmt.Fprintf(&b, "  - %s: %s (%s)\n", c.Name, c.Outcome, c.Message)
			} else {
				fmt.Fprintf(&b, "  - %s: %s\n", c.Name, c.Outcome)
			}
		}
	}
	return b.String()
}
