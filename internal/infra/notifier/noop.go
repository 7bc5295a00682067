package notifier

import (
	"context"

	"guild-tracker/internal/domain/entity"
)

// NoOpNotifier stands in for a disabled destination.
type NoOpNotifier struct{}

func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Notify returns nil without side effects.
func (n *NoOpNotifier) Notify(ctx context.Context, notification *entity.Notification) error {
	return nil
}
