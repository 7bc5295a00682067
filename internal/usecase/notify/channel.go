// Package notify fans a match notification out to every enabled chat
// destination. A broadcast succeeds only when every enabled destination
// accepted the message.
package notify

import (
	"context"

	"guild-tracker/internal/domain/entity"
)

// Channel is one notification destination (KOOK, Discord).
//
// Contract:
//   - Publish makes exactly one delivery attempt; retrying is the next run's job
//   - Publish must respect context cancellation
//   - All methods are safe for concurrent use
type Channel interface {
	// Name is the lowercase identifier used in logs, metrics labels and the
	// health endpoint.
	Name() string

	// IsEnabled reports whether the destination is configured. Disabled
	// channels are skipped by Broadcast.
	IsEnabled() bool

	// Publish delivers one notification.
	//
	// Returns:
	//   - ErrChannelDisabled: called on a disabled channel
	//   - ErrInvalidNotification: n is nil
	//   - transport or API errors from the destination, wrapped
	Publish(ctx context.Context, n *entity.Notification) error
}
