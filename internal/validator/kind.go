package validator

import (
	"context"

	"github.com/mrferris/genesis/internal/plan"
	"github.com/mrferris/genesis/internal/store"
)

// validateArgs bundles everything a kindValidator might need to check
// a plan: the full export (x509 chain checks walk to other paths),
// the plan's own keys, and the tool runner dhparams shells out to.
// Most kinds only touch present; x509 and dhparams are the exceptions.
type validateArgs struct {
	ctx      context.Context
	snapshot store.Snapshot
	present  map[string]string
	tools    ToolRunner
}

// kindValidator is internal/validator's own capability dispatch,
// selected once via validatorFor(p.Kind) instead of the switch
// validatePlan used to run. It mirrors plan.SecretKind's shape but
// can't be merged into it: checking a plan needs Report and
// store.Snapshot, both owned by this package, and internal/plan
// already sits underneath internal/validator in the import graph.
type kindValidator interface {
	Validate(v validateArgs, report *Report, p *plan.Plan)
}

type x509Validator struct{}

func (x509Validator) Validate(v validateArgs, report *Report, p *plan.Plan) {
	checkX509(report, p, v.snapshot)
}

type rsaValidator struct{}

func (rsaValidator) Validate(v validateArgs, report *Report, p *plan.Plan) {
	checkRSA(report, p, v.present)
}

type sshValidator struct{}

func (sshValidator) Validate(v validateArgs, report *Report, p *plan.Plan) {
	checkSSH(report, p, v.present)
}

type dhparamsValidator struct{}

func (dhparamsValidator) Validate(v validateArgs, report *Report, p *plan.Plan) {
	checkDHParams(v.ctx, v.tools, report, p, v.present)
}

type randomValidator struct{}

func (randomValidator) Validate(v validateArgs, report *Report, p *plan.Plan) {
	checkRandom(report, p, v.present)
}

type uuidValidator struct{}

func (uuidValidator) Validate(v validateArgs, report *Report, p *plan.Plan) {
	checkUUID(report, p, v.present)
}

// providedValidator is a no-op: existence (already checked in
// validatePlan before dispatch) is the only declared invariant for
// provided secrets.
type providedValidator struct{}

func (providedValidator) Validate(v validateArgs, report *Report, p *plan.Plan) {}

var validatorRegistry = map[plan.Kind]kindValidator{
	plan.KindX509:     x509Validator{},
	plan.KindRSA:      rsaValidator{},
	plan.KindSSH:      sshValidator{},
	plan.KindDHParams: dhparamsValidator{},
	plan.KindRandom:   randomValidator{},
	plan.KindUUID:     uuidValidator{},
	plan.KindProvided: providedValidator{},
}

// validatorFor returns the kindValidator for k, or nil if k has no
// declared checks beyond the existence check validatePlan already ran
// (currently only plan.KindError, which never reaches dispatch).
func validatorFor(k plan.Kind) kindValidator {
	return validatorRegistry[k]
}
