// Package progresstest provides a buffering progress.Sink for tests,
// grounded on the teacher's pattern of fake/mock collaborators for
// command-layer tests (tests/fakes in the retrieved example pack).
package progresstest

import (
	"fmt"

	"github.com/mrferris/genesis/internal/progress"
)

// Event is one recorded call against the Sink interface, tagged by
// kind so assertions can check both ordering and content.
type Event struct {
	Kind    string
	Path    string
	Message string
	Err     error
	Total   int
	Success int
	Failed  int
}

// Recorder implements progress.Sink by appending every call to
// Events, in call order, so tests can assert on §5's ordering
// guarantee directly.
type Recorder struct {
	Events []Event

	// Answers, if set, are consumed in order by Prompt/InlinePrompt
	// instead of blocking on stdin.
	Answers   []string
	answerIdx int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Wait(label string) {
	r.Events = append(r.Events, Event{Kind: "wait", Message: label})
}

func (r *Recorder) WaitDone() {
	r.Events = append(r.Events, Event{Kind: "wait-done"})
}

func (r *Recorder) Init(total int) {
	r.Events = append(r.Events, Event{Kind: "init", Total: total})
}

func (r *Recorder) StartItem(path string) {
	r.Events = append(r.Events, Event{Kind: "start-item", Path: path})
}

func (r *Recorder) DoneItem(path string, err error) {
	r.Events = append(r.Events, Event{Kind: "done-item", Path: path, Err: err})
}

func (r *Recorder) Notify(message string) {
	r.Events = append(r.Events, Event{Kind: "notify", Message: message})
}

func (r *Recorder) Prompt(question string) (string, error) {
	r.Events = append(r.Events, Event{Kind: "prompt", Message: question})
	return r.nextAnswer()
}

func (r *Recorder) InlinePrompt(question string) (rune, error) {
	r.Events = append(r.Events, Event{Kind: "inline-prompt", Message: question})
	answer, err := r.nextAnswer()
	if err != nil || answer == "" {
		return 0, err
	}
	return []rune(answer)[0], nil
}

func (r *Recorder) nextAnswer() (string, error) {
	if r.answerIdx >= len(r.Answers) {
		return "", fmt.Errorf("progresstest: no scripted answer available for prompt %d", r.answerIdx)
	}
	answer := r.Answers[r.answerIdx]
	r.answerIdx++
	return answer, nil
}

func (r *Recorder) Abort(reason string) {
	r.Events = append(r.Events, Event{Kind: "abort", Message: reason})
}

func (r *Recorder) Empty() {
	r.Events = append(r.Events, Event{Kind: "empty"})
}

func (r *Recorder) Completed(succeeded, failed int) {
	r.Events = append(r.Events, Event{Kind: "completed", Success: succeeded, Failed: failed})
}

// Kinds returns just the Kind of every recorded event, in order, the
// common shape needed to assert an ordering property.
func (r *Recorder) Kinds() []string {
	kinds := make([]string, len(r.Events))
	for i, e := range r.Events {
		kinds[i] = e.Kind
	}
	return kinds
}

var _ progress.Sink = (*Recorder)(nil)
