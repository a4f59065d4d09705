package progress

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/logging"
)

// TerminalSink prints events to a terminal, using the same
// ✓/⚠/✗-glyph, color/no-color convention as internal/logging.Logger.
type TerminalSink struct {
	logger *logging.Logger
	reader *bufio.Reader
}

// NewTerminalSink wraps logger as a progress.Sink.
func NewTerminalSink(logger *logging.Logger) *TerminalSink {
	return &TerminalSink{logger: logger, reader: bufio.NewReader(os.Stdin)}
}

func (t *TerminalSink) Wait(label string) {
	t.logger.Info("%s...", label)
}

func (t *TerminalSink) WaitDone() {}

func (t *TerminalSink) Init(total int) {
	t.logger.Info("Processing %d item(s)", total)
}

func (t *TerminalSink) StartItem(path string) {
	fmt.Fprintf(os.Stderr, "  %s ", path)
}

func (t *TerminalSink) DoneItem(path string, err error) {
	t.logger.Action(path, err)
}

func (t *TerminalSink) Notify(message string) {
	t.logger.Info("%s", message)
}

func (t *TerminalSink) Prompt(question string) (string, error) {
	if !isTTY() {
		return "", errors.NoTTY{Op: "prompt"}
	}
	fmt.Fprintf(os.Stderr, "%s: ", question)
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *TerminalSink) InlinePrompt(question string) (rune, error) {
	if !isTTY() {
		return 0, errors.NoTTY{Op: "inline-prompt"}
	}
	fmt.Fprintf(os.Stderr, "%s [y/n/q] ", question)
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return 0, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, nil
	}
	return []rune(strings.ToLower(line))[0], nil
}

func (t *TerminalSink) Abort(reason string) {
	t.logger.Warn("Aborted: %s", reason)
}

func (t *TerminalSink) Empty() {
	t.logger.Info("Nothing to do")
}

func (t *TerminalSink) Completed(succeeded, failed int) {
	if failed == 0 {
		t.logger.Info("Completed: %d succeeded", succeeded)
		return
	}
	t.logger.Error("Completed: %d succeeded, %d failed", succeeded, failed)
}

func isTTY() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
