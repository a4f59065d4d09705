// Package executor drives the Action Executor (spec.md §4.E): the
// linear, single-plan-at-a-time driver that realizes add/recreate/
// renew/remove against a store.Client, reporting through a
// progress.Sink as it goes. Its request/result shape is adapted from
// the teacher's rotation-strategy pattern — one request type per
// action instead of a named "strategy", and no concurrent batch path,
// since spec.md §5 requires strictly sequential execution so a CA's
// generation is always visible to its signees before they run.
package executor

import (
	"context"
	"fmt"
	"strings"

	dserrors "github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/plan"
	"github.com/mrferris/genesis/internal/progress"
	"github.com/mrferris/genesis/internal/store"
)

// Action names one of the four operations the executor realizes.
type Action string

const (
	ActionAdd      Action = "add"
	ActionRecreate Action = "recreate"
	ActionRenew    Action = "renew"
	ActionRemove   Action = "remove"
)

// Options configures a single Run.
type Options struct {
	// Interactive, when true, prompts y/n/q per item via the sink's
	// InlinePrompt; 'q' aborts the remainder.
	Interactive bool

	// NoPrompt skips recreate's upfront confirmation.
	NoPrompt bool

	// RenewSubject, when non-empty, is re-asserted as the subject CN
	// during renew (the GENESIS_RENEW_SUBJECT environment variable).
	RenewSubject string
}

// Result summarizes one Run.
type Result struct {
	Succeeded int
	Failed    int
	Aborted   bool
}

// Executor realizes actions against a single store.Client, reporting
// through a single progress.Sink.
type Executor struct {
	store store.Client
	sink  progress.Sink
}

// New constructs an Executor.
func New(storeClient store.Client, sink progress.Sink) *Executor {
	return &Executor{store: storeClient, sink: sink}
}

// Run processes every plan in set, in order, per action's policy
// (spec.md §4.E's per-action table). renew silently filters out every
// non-x509 plan before processing begins.
func (e *Executor) Run(ctx context.Context, set *plan.PlanSet, action Action, opts Options) Result {
	items := set.Ordered()
	if action == ActionRenew {
		items = onlyX509(items)
	}

	if len(items) == 0 {
		e.sink.Empty()
		return Result{}
	}

	if action == ActionRecreate && !opts.NoPrompt {
		answer, err := e.sink.Prompt(fmt.Sprintf("This will recreate %d secret(s). Continue? [y/N]", len(items)))
		if err != nil || !isYes(answer) {
			e.sink.Abort("recreate not confirmed")
			return Result{Aborted: true}
		}
	}

	e.sink.Init(len(items))

	result := Result{}
	for _, p := range items {
		if opts.Interactive {
			proceed, aborted := e.confirmItem(p, action)
			if aborted {
				e.sink.Abort("operator aborted")
				result.Aborted = true
				break
			}
			if !proceed {
				continue
			}
		}

		e.sink.StartItem(p.Path)
		err := e.runAction(ctx, p, action, opts)
		e.sink.DoneItem(p.Path, err)

		if err != nil {
			result.Failed++
			if !opts.Interactive {
				break
			}
			continue
		}
		result.Succeeded++
	}

	e.sink.Completed(result.Succeeded, result.Failed)
	return result
}

func (e *Executor) confirmItem(p *plan.Plan, action Action) (proceed, aborted bool) {
	answer, err := e.sink.InlinePrompt(fmt.Sprintf("%s %s?", action, p.Path))
	if err != nil {
		return false, true
	}
	switch answer {
	case 'y', 'Y':
		return true, false
	case 'q', 'Q':
		return false, true
	default:
		return false, false
	}
}

func (e *Executor) runAction(ctx context.Context, p *plan.Plan, action Action, opts Options) error {
	if p.Kind == plan.KindError {
		return dserrors.BadRequest{Path: p.Path, Message: p.Error}
	}

	switch action {
	case ActionAdd:
		return e.add(ctx, p)
	case ActionRecreate:
		return e.recreate(ctx, p)
	case ActionRenew:
		return e.renew(ctx, p, opts.RenewSubject)
	case ActionRemove:
		return e.remove(ctx, p)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func onlyX509(items []*plan.Plan) []*plan.Plan {
	out := make([]*plan.Plan, 0, len(items))
	for _, p := range items {
		if p.Kind == plan.KindX509 {
			out = append(out, p)
		}
	}
	return out
}

func isYes(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
