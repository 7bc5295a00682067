// Package slo tracks delivery objectives of the scheduled poll runs.
package slo

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets for the poll worker.
const (
	// RunSuccessSLO is the target ratio of successful runs (99% of the last Window runs)
	RunSuccessSLO = 0.99

	// RunLatencySLO is the target duration of one run in seconds
	RunLatencySLO = 10.0

	// Window is how many recent runs the ratios are computed over.
	// At the default 5-minute schedule this is one day.
	Window = 288
)

var (
	// SLORunSuccess tracks the success ratio over the last Window runs (0-1)
	SLORunSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_run_success_ratio",
			Help: "Ratio of successful poll runs over the recent window, target: 0.99",
		},
	)

	// SLORunsOverLatency tracks the ratio of runs slower than RunLatencySLO (0-1)
	SLORunsOverLatency = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_runs_over_latency_ratio",
			Help: "Ratio of poll runs slower than 10s over the recent window",
		},
	)

	// SLOConsecutiveFailures counts failed runs since the last success
	SLOConsecutiveFailures = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_consecutive_failed_runs",
			Help: "Number of failed poll runs since the last successful one",
		},
	)
)

type outcome struct {
	ok   bool
	slow bool
}

// Tracker keeps a ring of recent run outcomes.
type Tracker struct {
	mu          sync.Mutex
	ring        []outcome
	next        int
	full        bool
	consecutive int
}

// NewTracker creates a tracker over the last size runs. size < 1 means Window.
func NewTracker(size int) *Tracker {
	if size < 1 {
		size = Window
	}
	return &Tracker{ring: make([]outcome, size)}
}

// Snapshot is the state of a tracker after a run.
type Snapshot struct {
	SuccessRatio        float64
	OverLatencyRatio    float64
	ConsecutiveFailures int
	Runs                int
}

// Record adds one run and returns the updated ratios.
func (t *Tracker) Record(ok bool, seconds float64) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ring[t.next] = outcome{ok: ok, slow: seconds > RunLatencySLO}
	t.next = (t.next + 1) % len(t.ring)
	if t.next == 0 {
		t.full = true
	}
	if ok {
		t.consecutive = 0
	} else {
		t.consecutive++
	}

	n := t.next
	if t.full {
		n = len(t.ring)
	}
	var okCount, slowCount int
	for _, o := range t.ring[:n] {
		if o.ok {
			okCount++
		}
		if o.slow {
			slowCount++
		}
	}

	return Snapshot{
		SuccessRatio:        float64(okCount) / float64(n),
		OverLatencyRatio:    float64(slowCount) / float64(n),
		ConsecutiveFailures: t.consecutive,
		Runs:                n,
	}
}

var defaultTracker = NewTracker(Window)

// RecordRun records a run on the process-wide tracker and updates the gauges.
func RecordRun(ok bool, seconds float64) Snapshot {
	s := defaultTracker.Record(ok, seconds)
	SLORunSuccess.Set(s.SuccessRatio)
	SLORunsOverLatency.Set(s.OverLatencyRatio)
	SLOConsecutiveFailures.Set(float64(s.ConsecutiveFailures))
	return s
}
