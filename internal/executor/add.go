package executor

import (
	"context"

	"github.com/mrferris/genesis/internal/plan"
)

// add realizes the `add` action: generate with --no-clobber so an
// existing value is left untouched, or for `provided`, skip entirely
// once the target key already exists (spec.md §4.E).
func (e *Executor) add(ctx context.Context, p *plan.Plan) error {
	if p.Kind == plan.KindProvided {
		return e.addProvided(ctx, p)
	}

	argv, err := generationArgv(p, true)
	if err != nil {
		return err
	}
	_, err = e.store.Run(ctx, argv...)
	return err
}

// recreate realizes the `recreate` action: same generation call as
// add, but without --no-clobber unless the plan is fixed, in which
// case it behaves exactly like add (spec.md §4.E). For `provided`,
// a non-fixed plan is re-prompted and overwritten even if already
// present; a fixed one is left alone like add.
func (e *Executor) recreate(ctx context.Context, p *plan.Plan) error {
	if p.Kind == plan.KindProvided {
		return e.recreateProvided(ctx, p)
	}

	argv, err := generationArgv(p, p.Fixed)
	if err != nil {
		return err
	}
	_, err = e.store.Run(ctx, argv...)
	return err
}
