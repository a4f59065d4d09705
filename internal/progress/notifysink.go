package progress

import (
	"time"

	"github.com/mrferris/genesis/internal/notify"
)

// NotifyingSink wraps another Sink and mirrors StartItem/DoneItem/Abort
// into notify.Manager events, so external channels (Slack, webhook,
// email, PagerDuty) see the same lifecycle the terminal does, without
// the executor knowing notify exists. The wrapped Sink's calls stay
// synchronous; only the Manager's own delivery is async and best-effort.
type NotifyingSink struct {
	inner       Sink
	manager     *notify.Manager
	environment string
	action      string

	current   string
	startedAt time.Time
}

// NewNotifyingSink wraps inner, tagging every event sent to manager with
// environment and action.
func NewNotifyingSink(inner Sink, manager *notify.Manager, environment, action string) *NotifyingSink {
	return &NotifyingSink{inner: inner, manager: manager, environment: environment, action: action}
}

func (n *NotifyingSink) Wait(label string) { n.inner.Wait(label) }

func (n *NotifyingSink) WaitDone() { n.inner.WaitDone() }

func (n *NotifyingSink) Init(total int) { n.inner.Init(total) }

func (n *NotifyingSink) StartItem(path string) {
	n.current = path
	n.startedAt = time.Now()
	n.inner.StartItem(path)
	n.manager.Send(notify.LifecycleEvent{
		Type:        notify.EventTypeStarted,
		PlanPath:    path,
		Environment: n.environment,
		Action:      n.action,
		Timestamp:   n.startedAt,
	})
}

func (n *NotifyingSink) DoneItem(path string, err error) {
	n.inner.DoneItem(path, err)

	eventType := notify.EventTypeCompleted
	status := notify.StatusSuccess
	if err != nil {
		eventType = notify.EventTypeFailed
		status = notify.StatusFailure
	}

	var duration time.Duration
	if !n.startedAt.IsZero() {
		duration = time.Since(n.startedAt)
	}

	n.manager.Send(notify.LifecycleEvent{
		Type:        eventType,
		PlanPath:    path,
		Environment: n.environment,
		Action:      n.action,
		Status:      status,
		Error:       err,
		Duration:    duration,
		Timestamp:   time.Now(),
	})
}

func (n *NotifyingSink) Notify(message string) { n.inner.Notify(message) }

func (n *NotifyingSink) Prompt(question string) (string, error) { return n.inner.Prompt(question) }

func (n *NotifyingSink) InlinePrompt(question string) (rune, error) {
	return n.inner.InlinePrompt(question)
}

func (n *NotifyingSink) Abort(reason string) {
	n.inner.Abort(reason)
	n.manager.Send(notify.LifecycleEvent{
		Type:        notify.EventTypeAborted,
		Environment: n.environment,
		Action:      n.action,
		Status:      notify.StatusAborted,
		Timestamp:   time.Now(),
		Metadata:    map[string]string{"reason": reason},
	})
}

func (n *NotifyingSink) Empty() { n.inner.Empty() }

func (n *NotifyingSink) Completed(succeeded, failed int) { n.inner.Completed(succeeded, failed) }

var _ Sink = (*NotifyingSink)(nil)
var _ Sink = (*TerminalSink)(nil)
