package validator

import (
	"fmt"
	"strings"

	dserrors "github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/plan"
)

func checkRandom(report *Report, p *plan.Plan, keys map[string]string) {
	_, key := splitPathKey(p.Path)
	value := keys[key]

	if len(value) != p.Size {
		report.add("length", dserrors.OutcomeError, fmt.Sprintf("value is %d character(s), declared %d", len(value), p.Size))
	} else {
		report.add("length", dserrors.OutcomeOK, "")
	}

	if p.RandomValidChars != "" {
		if bad := firstDisallowedRune(value, p.RandomValidChars); bad != 0 {
			report.add("allowed-chars", dserrors.OutcomeError, fmt.Sprintf("character %q is outside the declared alphabet", bad))
		} else {
			report.add("allowed-chars", dserrors.OutcomeOK, "")
		}
	}

	if p.RandomFormat == "" {
		return
	}
	sibling := p.RandomAt
	if sibling == "" {
		sibling = key + "-" + p.RandomFormat
	}
	if _, ok := keys[sibling]; !ok {
		report.add("formatted-sibling", dserrors.OutcomeMissing, "formatted sibling key not found")
		return
	}
	report.add("formatted-sibling", dserrors.OutcomeOK, "")
}

func firstDisallowedRune(value, alphabet string) rune {
	for _, r := range value {
		if !strings.ContainsRune(alphabet, r) {
			return r
		}
	}
	return 0
}
