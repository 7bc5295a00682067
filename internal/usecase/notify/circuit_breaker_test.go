package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"guild-tracker/internal/domain/entity"
)

// countingChannel counts sends that reached it
type countingChannel struct {
	name string
	sent *int32
	fail bool
}

func (c *countingChannel) Name() string    { return c.name }
func (c *countingChannel) IsEnabled() bool { return true }
func (c *countingChannel) Publish(_ context.Context, _ *entity.Notification) error {
	atomic.AddInt32(c.sent, 1)
	if c.fail {
		return errors.New("simulated channel failure")
	}
	return nil
}

func readCounter(c prometheus.Counter) float64 {
	return testutil.ToFloat64(c)
}

// breakerThreshold mirrors circuitbreaker.ChannelConfig's MinRequests
const breakerThreshold = 5

// TestCircuitBreaker_OpensAfterThresholdFailures verifies the breaker trips and fails fast
func TestCircuitBreaker_OpensAfterThresholdFailures(t *testing.T) {
	var sent int32
	ch := &countingChannel{name: "cb-open", sent: &sent, fail: true}
	svc := NewService([]Channel{ch}, 1)

	opensBefore := readCounter(breakerTripsTotal.WithLabelValues("cb-open"))

	for i := 0; i < breakerThreshold; i++ {
		err := svc.Broadcast(context.Background(), testNotification())
		if err == nil {
			t.Fatalf("iteration %d: expected failure", i)
		}
	}
	if got := atomic.LoadInt32(&sent); got != breakerThreshold {
		t.Fatalf("expected %d sends before tripping, got %d", breakerThreshold, got)
	}

	// Breaker is open: the destination is not contacted but the broadcast still fails
	err := svc.Broadcast(context.Background(), testNotification())
	if !errors.Is(err, ErrCircuitBreakerOpen) {
		t.Fatalf("expected ErrCircuitBreakerOpen, got %v", err)
	}
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("breaker rejection must still be a publish failure, got %v", err)
	}
	if got := atomic.LoadInt32(&sent); got != breakerThreshold {
		t.Errorf("expected no send while open, got %d", got)
	}

	health := svc.GetChannelHealth()
	if len(health) != 1 || !health[0].CircuitBreakerOpen || health[0].State != "open" {
		t.Errorf("unexpected health %+v", health)
	}

	if after := readCounter(breakerTripsTotal.WithLabelValues("cb-open")); after != opensBefore+1 {
		t.Errorf("circuit open counter = %v, want %v", after, opensBefore+1)
	}
}

// TestCircuitBreaker_SuccessResetsWindow verifies intermittent failures do not trip the breaker
func TestCircuitBreaker_SuccessResetsWindow(t *testing.T) {
	var sent int32
	ch := &countingChannel{name: "cb-mixed", sent: &sent}
	svc := NewService([]Channel{ch}, 1)

	for i := 0; i < breakerThreshold*2; i++ {
		ch.fail = i%2 == 0
		_ = svc.Broadcast(context.Background(), testNotification())
	}

	if svc.GetChannelHealth()[0].CircuitBreakerOpen {
		t.Error("breaker must stay closed when failures are not all consecutive")
	}
}

// TestCircuitBreaker_IsolatedPerChannel verifies one open breaker leaves other channels alone
func TestCircuitBreaker_IsolatedPerChannel(t *testing.T) {
	var badSent, goodSent int32
	bad := &countingChannel{name: "cb-bad", sent: &badSent, fail: true}
	good := &countingChannel{name: "cb-good", sent: &goodSent}
	svcBad := NewService([]Channel{bad, good}, 2)

	for i := 0; i < breakerThreshold; i++ {
		_ = svcBad.Broadcast(context.Background(), testNotification())
	}

	for _, h := range svcBad.GetChannelHealth() {
		switch h.Name {
		case "cb-bad":
			if !h.CircuitBreakerOpen {
				t.Error("expected cb-bad breaker open")
			}
		case "cb-good":
			if h.CircuitBreakerOpen {
				t.Error("expected cb-good breaker closed")
			}
		}
	}
}
