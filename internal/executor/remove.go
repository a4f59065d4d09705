package executor

import (
	"context"

	"github.com/mrferris/genesis/internal/plan"
)

// remove realizes the `remove` action: deletes the plan's path(s).
// `random` plans with a `format` also delete the derived formatted
// key, at `destination` if set, else `<key>-<format>` (spec.md §4.E).
// Deletion tolerates an already-missing path (store.Client.Delete is
// idempotent).
func (e *Executor) remove(ctx context.Context, p *plan.Plan) error {
	switch p.Kind {
	case plan.KindRandom:
		path, key := splitPathKey(p.Path)
		if err := e.store.Delete(ctx, path, key); err != nil {
			return err
		}
		if p.RandomFormat == "" {
			return nil
		}
		sibling := p.RandomAt
		if sibling == "" {
			sibling = key + "-" + p.RandomFormat
		}
		return e.store.Delete(ctx, path, sibling)

	case plan.KindUUID, plan.KindProvided:
		path, key := splitPathKey(p.Path)
		return e.store.Delete(ctx, path, key)

	default:
		return e.store.Delete(ctx, p.Path, "")
	}
}
