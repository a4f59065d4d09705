// Package progress defines the Sink the executor and validator report
// through, per spec.md §4.G: one method per event kind, called
// directly and in order, with no queue or goroutine standing between
// the caller and the sink. Ordering here is load-bearing (spec.md §5)
// — CA-before-signee generation is only meaningfully observable if
// progress events for the CA arrive before progress events for its
// signees.
package progress

// Sink receives the lifecycle event stream. The executor and
// validator never write to standard streams directly — they always go
// through a Sink, so tests and CI front-ends can substitute
// capturing implementations (spec.md §4.G).
type Sink interface {
	// Wait announces that a phase (e.g. "resolving dependencies") is
	// starting and may take a moment.
	Wait(label string)

	// WaitDone closes out the most recent Wait.
	WaitDone()

	// Init announces the total number of items about to be processed.
	Init(total int)

	// StartItem announces that path is about to be processed.
	StartItem(path string)

	// DoneItem reports the outcome of the most recently started item.
	// err is nil on success.
	DoneItem(path string, err error)

	// Notify emits an informational message not tied to a specific
	// item.
	Notify(message string)

	// Prompt blocks for a free-form answer to question.
	Prompt(question string) (string, error)

	// InlinePrompt blocks for a single keypress answering question.
	InlinePrompt(question string) (rune, error)

	// Abort reports that the run is stopping before processing every
	// item, and why.
	Abort(reason string)

	// Empty reports that there was nothing to do.
	Empty()

	// Completed reports that the run has finished, either after every
	// item or after stopping early on an abort or failure, with a
	// summary of how many succeeded/failed.
	Completed(succeeded, failed int)
}
