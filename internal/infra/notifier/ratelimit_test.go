package notifier

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestinationPacing(t *testing.T) {
	tests := []struct {
		name      string
		limiter   *RateLimiter
		wantRate  float64
		wantBurst int
	}{
		// webhook limit: 30 requests per minute
		{name: "discord", limiter: NewDiscordNotifier(DiscordConfig{}).rateLimiter, wantRate: 0.5, wantBurst: 3},
		{name: "kook", limiter: NewKookNotifier(KookConfig{}).rateLimiter, wantRate: 1, wantBurst: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantRate, tt.limiter.Limit())
			assert.Equal(t, tt.wantBurst, tt.limiter.limiter.Burst())
		})
	}
}

// countingServer answers every request with body and counts the hits.
func countingServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

// A run that selects more matches than the burst waits for the bucket.
// When the wait cannot finish before the deadline the send fails without
// reaching the webhook.
func TestDiscordNotifier_BurstThenWait(t *testing.T) {
	srv, hits := countingServer(t, http.StatusNoContent, "")
	d := NewDiscordNotifier(DiscordConfig{Enabled: true, WebhookURL: srv.URL, Timeout: 2 * time.Second})

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, d.Notify(context.Background(), sampleNotification()), "send %d", i+1)
	}
	assert.Less(t, time.Since(start), time.Second, "the burst must not be paced")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := d.Notify(ctx, sampleNotification())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter error")
	assert.EqualValues(t, 3, atomic.LoadInt32(hits))
}

func TestKookNotifier_BurstThenWait(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK, `{"code":0,"message":"ok"}`)
	k := NewKookNotifier(KookConfig{Enabled: true, Token: "t", TargetID: "c", BaseURL: srv.URL, Timeout: 2 * time.Second})

	for i := 0; i < 2; i++ {
		require.NoError(t, k.Notify(context.Background(), sampleNotification()), "send %d", i+1)
	}

	// one token every second; the third card goes out once it refills
	start := time.Now()
	require.NoError(t, k.Notify(context.Background(), sampleNotification()))
	assert.GreaterOrEqual(t, time.Since(start), 500*time.Millisecond)
	assert.EqualValues(t, 3, atomic.LoadInt32(hits))
}

func TestRateLimiter_ShutdownWhileWaiting(t *testing.T) {
	limiter := NewRateLimiter(0.5, 1)
	require.NoError(t, limiter.Allow(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- limiter.Allow(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	case <-time.After(time.Second):
		t.Fatal("Allow did not return after cancel")
	}
}
