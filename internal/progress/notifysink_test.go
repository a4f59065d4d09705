package progress_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mrferris/genesis/internal/notify"
	"github.com/mrferris/genesis/internal/progress"
	"github.com/mrferris/genesis/internal/progress/progresstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingProvider struct {
	mu     sync.Mutex
	events []notify.LifecycleEvent
}

func (p *capturingProvider) Name() string { return "capturing" }

func (p *capturingProvider) Send(_ context.Context, event notify.LifecycleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingProvider) SupportsEvent(notify.EventType) bool { return true }

func (p *capturingProvider) Validate(context.Context) error { return nil }

func (p *capturingProvider) snapshot() []notify.LifecycleEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.LifecycleEvent, len(p.events))
	copy(out, p.events)
	return out
}

func TestNotifyingSink_MirrorsItemEvents(t *testing.T) {
	inner := progresstest.NewRecorder()
	manager := notify.NewManager(10)
	provider := &capturingProvider{}
	manager.RegisterProvider(provider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	manager.Start(ctx)
	defer manager.Stop()

	sink := progress.NewNotifyingSink(inner, manager, "production", "renew")
	sink.StartItem("work/signing_key")
	sink.DoneItem("work/signing_key", nil)

	require.Eventually(t, func() bool {
		return len(provider.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)

	events := provider.snapshot()
	assert.Equal(t, notify.EventTypeStarted, events[0].Type)
	assert.Equal(t, "work/signing_key", events[0].PlanPath)
	assert.Equal(t, "production", events[0].Environment)
	assert.Equal(t, "renew", events[0].Action)

	assert.Equal(t, notify.EventTypeCompleted, events[1].Type)
	assert.Equal(t, notify.StatusSuccess, events[1].Status)

	assert.Equal(t, []string{"start-item", "done-item"}, inner.Kinds())
}

func TestNotifyingSink_FailureProducesFailedEvent(t *testing.T) {
	inner := progresstest.NewRecorder()
	manager := notify.NewManager(10)
	provider := &capturingProvider{}
	manager.RegisterProvider(provider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	manager.Start(ctx)
	defer manager.Stop()

	sink := progress.NewNotifyingSink(inner, manager, "production", "add")
	sink.StartItem("work/leaf_key")
	sink.DoneItem("work/leaf_key", assert.AnError)

	require.Eventually(t, func() bool {
		return len(provider.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)

	events := provider.snapshot()
	assert.Equal(t, notify.EventTypeFailed, events[1].Type)
	assert.Equal(t, notify.StatusFailure, events[1].Status)
	assert.Equal(t, assert.AnError, events[1].Error)
}

func TestNotifyingSink_AbortMirrored(t *testing.T) {
	inner := progresstest.NewRecorder()
	manager := notify.NewManager(10)
	provider := &capturingProvider{}
	manager.RegisterProvider(provider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	manager.Start(ctx)
	defer manager.Stop()

	sink := progress.NewNotifyingSink(inner, manager, "production", "remove")
	sink.Abort("operator declined")

	require.Eventually(t, func() bool {
		return len(provider.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, notify.EventTypeAborted, provider.snapshot()[0].Type)
	assert.Equal(t, "abort", inner.Kinds()[0])
}
