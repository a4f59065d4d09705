package executor

import (
	"github.com/mrferris/genesis/internal/plan"
)

// generationArgv builds the argv the store's `Run` verb needs to
// realize p, delegating to the plan.SecretKind selected for p.Kind
// (spec.md §4.A's `x509 issue/renew, gen, rsa, ssh, dhparam, uuid set`
// verb table). noClobber is appended for add (and for recreate on a
// non-fixed plan it is omitted by the caller).
func generationArgv(p *plan.Plan, noClobber bool) ([]string, error) {
	return plan.KindOf(p.Kind).GenerateArgs(p, noClobber)
}

// x509RenewArgv builds the argv for `safe x509 renew`, re-asserting the
// subject CN when subject is non-empty (spec.md §4.E, driven by the
// GENESIS_RENEW_SUBJECT environment variable). Renew is a distinct verb
// from the generation table above, so it stays outside SecretKind.
func x509RenewArgv(p *plan.Plan, subject string) []string {
	argv := []string{"safe", "x509", "renew", p.Path}
	if subject != "" {
		argv = append(argv, "--subject", subject)
	}
	return argv
}

// splitPathKey mirrors plan.splitPathKey for the "P:K" composite paths
// random/uuid/provided plans use, duplicated here since that helper is
// unexported.
func splitPathKey(pathKey string) (path, key string) {
	for i := len(pathKey) - 1; i >= 0; i-- {
		if pathKey[i] == ':' {
			return pathKey[:i], pathKey[i+1:]
		}
	}
	return pathKey, ""
}
