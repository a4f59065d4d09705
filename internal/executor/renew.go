package executor

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/mrferris/genesis/internal/plan"
)

var renewedLine = regexp.MustCompile(`Renewed .* expiry set to (\S+)`)

var renewDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC1123,
}

// renew realizes the `renew` action for x509 plans: every other kind
// has already been filtered out by Run. When subject is non-empty the
// renewed certificate's CN is re-asserted (GENESIS_RENEW_SUBJECT).
func (e *Executor) renew(ctx context.Context, p *plan.Plan, subject string) error {
	if p.Kind != plan.KindX509 {
		return nil
	}

	result, err := e.store.Run(ctx, x509RenewArgv(p, subject)...)
	if err != nil {
		return err
	}

	expiry, err := parseRenewedExpiry(result.Stdout)
	if err != nil {
		e.sink.Notify(fmt.Sprintf("%s: renewed, but could not parse new expiry: %v", p.Path, err))
		return nil
	}

	remaining := int(time.Until(expiry).Hours() / 24)
	e.sink.Notify(fmt.Sprintf("%s: renewed, expires %s (%d days remaining)", p.Path, expiry.Format("2006-01-02"), remaining))
	return nil
}

// parseRenewedExpiry extracts the date from a `Renewed ... expiry set
// to <DATE>` line (spec.md §4.E).
func parseRenewedExpiry(stdout string) (time.Time, error) {
	match := renewedLine.FindStringSubmatch(stdout)
	if match == nil {
		return time.Time{}, fmt.Errorf("no 'Renewed ... expiry set to' line found")
	}

	for _, layout := range renewDateLayouts {
		if t, err := time.Parse(layout, match[1]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized expiry date %q", match[1])
}
