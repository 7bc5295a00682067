package notify

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guild-tracker/internal/infra/notifier"
)

// TestBroadcast_NoChannelsEnabled verifies an empty broadcast succeeds without sends
func TestBroadcast_NoChannelsEnabled(t *testing.T) {
	kook := &mockChannel{name: "kook", enabled: false}
	discord := &mockChannel{name: "discord", enabled: false}
	svc := NewService([]Channel{kook, discord}, 2)

	err := svc.Broadcast(context.Background(), testNotification())

	assert.NoError(t, err)
	assert.Equal(t, 0, kook.callCount())
	assert.Equal(t, 0, discord.callCount())
}

// TestBroadcast_AllChannels verifies every enabled channel receives the same notification
func TestBroadcast_AllChannels(t *testing.T) {
	kook := &mockChannel{name: "kook", enabled: true}
	discord := &mockChannel{name: "discord", enabled: true}
	disabled := &mockChannel{name: "email", enabled: false}
	svc := NewService([]Channel{kook, discord, disabled}, 2)
	n := testNotification()

	err := svc.Broadcast(context.Background(), n)

	require.NoError(t, err)
	assert.Equal(t, 1, kook.callCount())
	assert.Equal(t, 1, discord.callCount())
	assert.Equal(t, 0, disabled.callCount())
	assert.Same(t, n, kook.last)
	assert.Same(t, n, discord.last)
}

func TestBroadcast_NilNotification(t *testing.T) {
	kook := &mockChannel{name: "kook", enabled: true}
	svc := NewService([]Channel{kook}, 1)

	err := svc.Broadcast(context.Background(), nil)

	assert.ErrorIs(t, err, ErrInvalidNotification)
	assert.Equal(t, 0, kook.callCount())
}

// TestBroadcast_Failure verifies one failing destination fails the broadcast
func TestBroadcast_Failure(t *testing.T) {
	for _, limit := range []int{1, 2} {
		t.Run(fmt.Sprintf("maxConcurrent=%d", limit), func(t *testing.T) {
			sendErr := errors.New("connection refused")
			kook := &mockChannel{name: "kook", enabled: true, publishError: sendErr}
			discord := &mockChannel{name: "discord", enabled: true}
			svc := NewService([]Channel{kook, discord}, limit)

			err := svc.Broadcast(context.Background(), testNotification())

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPublishFailed)
			assert.ErrorIs(t, err, sendErr)
			assert.Equal(t, "kook: connection refused", err.Error())

			var pe *PublishError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "kook", pe.Channel)
		})
	}
}

// TestBroadcast_SequentialStopsAfterFailure verifies later channels are not
// contacted once the outcome is decided
func TestBroadcast_SequentialStopsAfterFailure(t *testing.T) {
	first := &mockChannel{name: "kook", enabled: true, publishError: errors.New("boom")}
	second := &mockChannel{name: "discord", enabled: true}
	svc := NewService([]Channel{first, second}, 1)

	err := svc.Broadcast(context.Background(), testNotification())

	require.Error(t, err)
	assert.Equal(t, 1, first.callCount())
	assert.Equal(t, 0, second.callCount())
}

// TestBroadcast_ConcurrentFailureCancelsSiblings verifies the group context is canceled
func TestBroadcast_ConcurrentFailureCancelsSiblings(t *testing.T) {
	failing := &mockChannel{name: "kook", enabled: true, publishError: errors.New("boom")}
	slow := &mockChannel{name: "discord", enabled: true, publishDelay: 5 * time.Second}
	svc := NewService([]Channel{failing, slow}, 2)

	start := time.Now()
	err := svc.Broadcast(context.Background(), testNotification())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestBroadcast_RunsConcurrently(t *testing.T) {
	a := &mockChannel{name: "kook", enabled: true, publishDelay: 200 * time.Millisecond}
	b := &mockChannel{name: "discord", enabled: true, publishDelay: 200 * time.Millisecond}
	svc := NewService([]Channel{a, b}, 2)

	start := time.Now()
	require.NoError(t, svc.Broadcast(context.Background(), testNotification()))

	assert.Less(t, time.Since(start), 390*time.Millisecond)
}

func TestBroadcast_PanicIsFailure(t *testing.T) {
	ch := &mockChannel{name: "kook", enabled: true, panicOnSend: true}
	svc := NewService([]Channel{ch}, 1)

	err := svc.Broadcast(context.Background(), testNotification())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPublishFailed)
	assert.Contains(t, err.Error(), "panic")
}

func TestBroadcast_ParentContextCanceled(t *testing.T) {
	ch := &mockChannel{name: "kook", enabled: true}
	svc := NewService([]Channel{ch}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Broadcast(ctx, testNotification())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, ch.callCount())
}

func TestBroadcast_RateLimitedCounted(t *testing.T) {
	ch := &mockChannel{name: "ratelimited", enabled: true,
		publishError: &notifier.RateLimitError{RetryAfter: time.Second}}
	svc := NewService([]Channel{ch}, 1)

	before := readCounter(publishTotal.WithLabelValues("ratelimited", outcomeRateLimited))
	err := svc.Broadcast(context.Background(), testNotification())

	_, limited := notifier.IsRateLimited(err)
	assert.True(t, limited)
	assert.Equal(t, before+1, readCounter(publishTotal.WithLabelValues("ratelimited", outcomeRateLimited)))
}

func TestNewService_ClampsConcurrency(t *testing.T) {
	svc := NewService(nil, 0).(*service)
	assert.Equal(t, 1, svc.maxConcurrent)
}

// TestGetChannelHealth reports every channel, enabled or not
func TestGetChannelHealth(t *testing.T) {
	svc := NewService([]Channel{
		&mockChannel{name: "kook", enabled: true},
		&mockChannel{name: "discord", enabled: false},
	}, 2)

	statuses := svc.GetChannelHealth()

	require.Len(t, statuses, 2)
	assert.Equal(t, ChannelHealthStatus{Name: "kook", Enabled: true, State: "closed"}, statuses[0])
	assert.Equal(t, ChannelHealthStatus{Name: "discord", Enabled: false, State: "closed"}, statuses[1])
}

func TestBroadcast_CountsSends(t *testing.T) {
	var sent int32
	ch := &countingChannel{name: "kook", sent: &sent}
	svc := NewService([]Channel{ch}, 1)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Broadcast(context.Background(), testNotification()))
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&sent))
}
