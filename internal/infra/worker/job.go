package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"guild-tracker/internal/observability/logging"
	"guild-tracker/internal/observability/slo"
	"guild-tracker/internal/usecase/poll"
)

// Runner executes one poll run.
type Runner interface {
	Run(ctx context.Context) (*poll.RunSummary, error)
}

// PollJob adapts a Runner to a cron job: every tick gets its own timeout,
// metrics and a recorded outcome. A failed run is logged and reported,
// never propagated to the scheduler.
type PollJob struct {
	runner  Runner
	timeout time.Duration
	logger  *slog.Logger
	metrics *WorkerMetrics
	health  *HealthServer
}

// NewPollJob creates a PollJob. metrics and health may be nil.
func NewPollJob(runner Runner, timeout time.Duration, logger *slog.Logger, metrics *WorkerMetrics, health *HealthServer) *PollJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &PollJob{
		runner:  runner,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
		health:  health,
	}
}

// Run implements cron.Job.
func (j *PollJob) Run() {
	j.RunOnce(context.Background())
}

// RunOnce performs one bounded run and returns its handler result.
func (j *PollJob) RunOnce(parent context.Context) poll.HandlerResult {
	start := time.Now()
	if j.metrics != nil {
		j.metrics.RecordJobRun("started")
	}

	ctx, cancel := context.WithTimeout(logging.WithLogger(parent, j.logger), j.timeout)
	defer cancel()

	summary, err := j.runner.Run(ctx)
	result := poll.ResultFor(err)
	duration := time.Since(start)

	if j.metrics != nil {
		j.metrics.RecordJobRun(poll.ResultLabel(err))
		j.metrics.RecordJobDuration(duration.Seconds())
		if summary != nil {
			j.metrics.RecordMatchesDelivered(summary.Delivered)
		}
		if err == nil {
			j.metrics.RecordLastSuccess()
		}
	}

	snap := slo.RecordRun(err == nil, duration.Seconds())
	if snap.ConsecutiveFailures > 0 && snap.SuccessRatio < slo.RunSuccessSLO {
		j.logger.Warn("run success ratio below objective",
			slog.Float64("success_ratio", snap.SuccessRatio),
			slog.Int("consecutive_failures", snap.ConsecutiveFailures),
			slog.Int("window", snap.Runs))
	}

	if j.health != nil {
		run := LastRun{
			Result:     poll.ResultLabel(err),
			Message:    result.Message,
			FinishedAt: time.Now().UTC(),
		}
		if summary != nil {
			run.RunID = summary.RunID
			run.Delivered = summary.Delivered
			wm := summary.Watermark
			run.Watermark = &wm
		}
		j.health.RecordRun(run)
	}

	if err != nil {
		j.logger.Error("poll job failed",
			slog.String("result", result.Message),
			slog.Duration("duration", duration))
	} else {
		j.logger.Debug("poll job finished", slog.Duration("duration", duration))
	}
	return result
}

// NewScheduler builds a cron scheduler evaluated in cfg's timezone. A tick
// that fires while the previous run is still in flight is skipped.
func NewScheduler(cfg *WorkerConfig, logger *slog.Logger) *cron.Cron {
	cronLogger := cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	return cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger)),
	)
}

// Schedule registers job on c with cfg's schedule.
func Schedule(c *cron.Cron, cfg *WorkerConfig, job cron.Job) (cron.EntryID, error) {
	return c.AddJob(cfg.PollSchedule, job)
}
