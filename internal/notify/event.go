// Package notify provides asynchronous, best-effort fan-out of secret
// lifecycle events to external channels (Slack, webhook, email, PagerDuty).
//
// It is a secondary consumer layered on top of the engine's synchronous
// progress.Sink: the executor calls a Sink method once per event, in
// order, exactly as it calls the terminal sink. This package's Manager
// then enqueues that same event for asynchronous, possibly-dropped
// delivery to external systems. The ordering contract the executor
// depends on is never touched by this package.
package notify

import (
	"time"
)

// EventType is the kind of lifecycle event being reported.
type EventType string

const (
	// EventTypeStarted indicates an action has started for a plan.
	EventTypeStarted EventType = "started"

	// EventTypeCompleted indicates an action completed successfully.
	EventTypeCompleted EventType = "completed"

	// EventTypeFailed indicates an action failed.
	EventTypeFailed EventType = "failed"

	// EventTypeAborted indicates the run was aborted by the operator.
	EventTypeAborted EventType = "aborted"
)

// ActionStatus is the outcome status of a completed action.
type ActionStatus string

const (
	StatusSuccess ActionStatus = "success"
	StatusFailure ActionStatus = "failure"
	StatusAborted ActionStatus = "aborted"
)

// LifecycleEvent describes one add/recreate/renew/remove/validate outcome
// for a single plan, in a shape suitable for external notification.
type LifecycleEvent struct {
	// Type is the kind of event (started, completed, failed, aborted).
	Type EventType

	// PlanPath is the path of the plan this event concerns.
	PlanPath string

	// Environment is the environment name the run targets.
	Environment string

	// Action is the action being performed (add, recreate, renew, remove, validate).
	Action string

	// Status is the outcome status once the action has finished.
	Status ActionStatus

	// Error contains the error if the action failed.
	Error error

	// Duration is how long the action took.
	Duration time.Duration

	// Metadata carries additional context (e.g. plan kind, feature name).
	Metadata map[string]string

	// Timestamp is when the event occurred.
	Timestamp time.Time

	// InitiatedBy indicates who or what initiated the run.
	InitiatedBy string
}

// AllEventTypes returns all valid event types.
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeStarted,
		EventTypeCompleted,
		EventTypeFailed,
		EventTypeAborted,
	}
}
