package notifier

import (
	"context"
	"testing"
)

func TestNoOpNotifier_Notify(t *testing.T) {
	var n Notifier = NewNoOpNotifier()

	if err := n.Notify(context.Background(), sampleNotification()); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Notify(ctx, nil); err != nil {
		t.Errorf("expected nil error with canceled context and nil notification, got %v", err)
	}
}
