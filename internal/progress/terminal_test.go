package progress

import (
	"testing"

	"github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/logging"
	"github.com/stretchr/testify/assert"
)

func newTestSink() *TerminalSink {
	return NewTerminalSink(logging.New(false, true))
}

func TestTerminalSink_LifecycleMethodsDoNotPanic(t *testing.T) {
	sink := newTestSink()

	sink.Wait("resolving dependencies")
	sink.WaitDone()
	sink.Init(3)
	sink.StartItem("work/signing_key")
	sink.DoneItem("work/signing_key", nil)
	sink.DoneItem("work/leaf_key", assert.AnError)
	sink.Notify("renewed 3 secrets")
	sink.Abort("operator declined")
	sink.Empty()
	sink.Completed(2, 1)
}

func TestTerminalSink_Prompt_ErrorsWithoutTTY(t *testing.T) {
	sink := newTestSink()

	_, err := sink.Prompt("overwrite?")

	var noTTY errors.NoTTY
	assert.ErrorAs(t, err, &noTTY)
}

func TestTerminalSink_InlinePrompt_ErrorsWithoutTTY(t *testing.T) {
	sink := newTestSink()

	_, err := sink.InlinePrompt("renew?")

	var noTTY errors.NoTTY
	assert.ErrorAs(t, err, &noTTY)
}
