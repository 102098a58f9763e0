// Package notification delivers clear-night push messages through shoutrrr.
package notification

import "context"

// Notification is a single push message.
type Notification struct {
	Title   string
	Message string
}

// Provider defines a push delivery backend.
// Implementations must be safe for concurrent use.
type Provider interface {
	GetName() string
	ValidateConfig() error
	Send(ctx context.Context, n *Notification) error
	IsEnabled() bool
}
