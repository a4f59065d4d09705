// Package notify provides fan-out delivery of secret lifecycle events.
package notify

import (
	"context"
)

// NotificationProvider defines the interface for sending lifecycle notifications.
type NotificationProvider interface {
	// Name returns the provider name (e.g., "slack", "email", "pagerduty", "webhook").
	Name() string

	// Send sends a notification for the given lifecycle event.
	Send(ctx context.Context, event LifecycleEvent) error

	// SupportsEvent returns true if this provider handles the given event type.
	SupportsEvent(eventType EventType) bool

	// Validate checks if the provider configuration is valid.
	Validate(ctx context.Context) error
}
