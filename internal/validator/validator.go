// Package validator implements the Validator (spec.md §4.F): one full
// export under the environment's prefix populates a SecretSnapshot,
// then every plan's declared invariants are checked against it. A
// failed check never aborts the run — the Validator always finishes
// every plan, and reports the worst outcome per plan.
package validator

import (
	"context"

	dserrors "github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/plan"
	"github.com/mrferris/genesis/internal/store"
)

// Check is a single named invariant check against one plan.
type Check struct {
	Name    string
	Outcome dserrors.ValidationOutcome
	Message string
}

// Report is the full set of checks run against one plan, plus the
// worst-of aggregate outcome (spec.md §4.F).
type Report struct {
	Path    string
	Kind    plan.Kind
	Checks  []Check
	Outcome dserrors.ValidationOutcome
}

func newReport(p *plan.Plan) *Report {
	return &Report{Path: p.Path, Kind: p.Kind, Outcome: dserrors.OutcomeOK}
}

func (r *Report) add(name string, outcome dserrors.ValidationOutcome, message string) {
	r.Checks = append(r.Checks, Check{Name: name, Outcome: outcome, Message: message})
	if r.Outcome.Worse(outcome) {
		r.Outcome = outcome
	}
}

// Validator drives one export and checks every plan against it.
type Validator struct {
	store store.Client
	tools ToolRunner
}

// ToolRunner is the narrow surface the Validator needs from
// cmdexec.CommandExecutor to shell out to openssl/ssh-keygen for
// checks the standard library can't perform itself.
type ToolRunner interface {
	Execute(ctx context.Context, env []string, argv ...string) (stdout []byte, stderr []byte, err error)
}

// New constructs a Validator. tools drives openssl dhparam -check; a
// nil store.Client is never valid, but tools may be nil if no plan in
// a given run needs dhparams checking.
func New(storeClient store.Client, tools ToolRunner) *Validator {
	return &Validator{store: storeClient, tools: tools}
}

// Validate exports every path under prefixes once, then checks every
// plan in set against the resulting snapshot.
func (v *Validator) Validate(ctx context.Context, set *plan.PlanSet, prefixes ...string) ([]*Report, error) {
	snapshot, err := v.store.Export(ctx, prefixes...)
	if err != nil {
		return nil, err
	}

	reports := make([]*Report, 0, set.Len())
	for _, p := range set.Ordered() {
		reports = append(reports, v.validatePlan(ctx, p, snapshot))
	}
	return reports, nil
}

func (v *Validator) validatePlan(ctx context.Context, p *plan.Plan, snapshot store.Snapshot) *Report {
	report := newReport(p)

	if p.Kind == plan.KindError {
		report.add("parse", dserrors.OutcomeError, p.Error)
		return report
	}

	storePath, keys := expectedLocation(p)
	present := snapshot[storePath]
	for _, key := range keys {
		if _, ok := present[key]; !ok {
			report.add("exists:"+key, dserrors.OutcomeMissing, "key not found in store")
		}
	}
	if report.Outcome == dserrors.OutcomeMissing {
		return report
	}

	if kv := validatorFor(p.Kind); kv != nil {
		kv.Validate(validateArgs{ctx: ctx, snapshot: snapshot, present: present, tools: v.tools}, report, p)
	}

	return report
}

// expectedLocation returns the store path and the keys a fully
// realized plan of this kind must have there, splitting the "P:K"
// composite path random/uuid/provided plans use.
func expectedLocation(p *plan.Plan) (string, []string) {
	switch p.Kind {
	case plan.KindRandom, plan.KindUUID, plan.KindProvided:
		path, _ := splitPathKey(p.Path)
		return path, plan.KindOf(p.Kind).ExpectedKeys(p)
	default:
		return p.Path, plan.KindOf(p.Kind).ExpectedKeys(p)
	}
}

func splitPathKey(pathKey string) (path, key string) {
	for i := len(pathKey) - 1; i >= 0; i-- {
		if pathKey[i] == ':' {
			return pathKey[:i], pathKey[i+1:]
		}
	}
	return pathKey, ""
}
