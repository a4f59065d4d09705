package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/mrferris/genesis/internal/logging"
	"github.com/stretchr/testify/assert"
)

// captureStderr captures stderr output produced while fn runs.
func captureStderr(fn func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

type failingProvider struct{}

func (failingProvider) Name() string                               { return "failing" }
func (failingProvider) Send(context.Context, LifecycleEvent) error { return errors.New("unreachable") }
func (failingProvider) SupportsEvent(EventType) bool                { return true }
func (failingProvider) Validate(context.Context) error              { return nil }

func TestManager_DispatchEvent_LogsProviderFailureWhenLoggerSet(t *testing.T) {
	logger := logging.New(false, true)
	m := NewManager(10)
	m.SetLogger(logger)
	m.RegisterProvider(failingProvider{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	output := captureStderr(func() {
		m.Send(LifecycleEvent{Type: EventTypeStarted, PlanPath: "work/cert"})
		m.Stop()
	})

	assert.Contains(t, output, "failing")
	assert.Contains(t, output, "work/cert")
	assert.Contains(t, output, "notification delivery failed")
}

func TestManager_DispatchEvent_SilentWithoutLogger(t *testing.T) {
	m := NewManager(10)
	m.RegisterProvider(failingProvider{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	output := captureStderr(func() {
		m.Send(LifecycleEvent{Type: EventTypeStarted, PlanPath: "work/cert"})
		time.Sleep(10 * time.Millisecond)
		m.Stop()
	})

	assert.Empty(t, output)
}
