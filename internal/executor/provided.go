package executor

import (
	"context"
	"fmt"
	"os"

	"github.com/mrferris/genesis/internal/plan"
	"github.com/mrferris/genesis/internal/secure"
)

// addProvided captures an operator-supplied value for p and writes it
// to the store, once. If the key is already present it is left alone
// (spec.md §4.E: "provided plans with all target keys already present
// are skipped").
func (e *Executor) addProvided(ctx context.Context, p *plan.Plan) error {
	return e.captureProvided(ctx, p, false)
}

// recreateProvided re-captures p's value, overwriting whatever is
// already stored unless p is fixed, in which case it behaves exactly
// like add (spec.md §4.E: recreate overwrites non-fixed provided
// secrets, but fixed ones are preserved like every other fixed kind).
func (e *Executor) recreateProvided(ctx context.Context, p *plan.Plan) error {
	return e.captureProvided(ctx, p, !p.Fixed)
}

// captureProvided prompts for and stores p's value. When overwrite is
// false, a present key is left untouched; when true, the operator is
// re-prompted and the key is overwritten regardless of its current
// value.
func (e *Executor) captureProvided(ctx context.Context, p *plan.Plan, overwrite bool) error {
	path, key := splitPathKey(p.Path)

	if !overwrite {
		present, err := e.store.Has(ctx, path, key)
		if err != nil {
			return err
		}
		if present {
			return nil
		}
	}

	question := p.Prompt
	if question == "" {
		question = fmt.Sprintf("value for %s", p.Path)
	}

	raw, err := e.sink.Prompt(question)
	if err != nil {
		return err
	}

	buf, err := secure.NewSecureBuffer([]byte(raw))
	if err != nil {
		return err
	}
	defer buf.Destroy()

	return buf.WithPlaintext(func(plaintext []byte) error {
		if p.Multiline {
			return e.setFromFile(ctx, path, key, plaintext)
		}
		return e.store.Set(ctx, path, key, string(plaintext))
	})
}

// setFromFile captures a multiline value via an ephemeral workspace
// file and the store's `@file` set syntax, never passing the value
// through a shell string (spec.md §4.E).
func (e *Executor) setFromFile(ctx context.Context, path, key string, value []byte) error {
	f, err := os.CreateTemp("", "genesis-provided-*")
	if err != nil {
		return err
	}
	tmpPath := f.Name()
	defer os.Remove(tmpPath)

	if _, err := f.Write(value); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	_, err = e.store.Run(ctx, "safe", "set", path, key+"=@"+tmpPath)
	return err
}
