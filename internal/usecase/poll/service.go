package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"guild-tracker/internal/domain/entity"
	"guild-tracker/internal/observability/logging"
	"guild-tracker/internal/observability/metrics"
	"guild-tracker/internal/observability/tracing"
	"guild-tracker/internal/repository"
	"guild-tracker/internal/usecase/notify"
)

// DefaultTake is how many recent matches one run asks the provider for.
// A backlog larger than this between two runs is silently skipped.
const DefaultTake = 5

// MatchProvider fetches the most recent matches of a guild, newest first.
type MatchProvider interface {
	FetchGuildMatches(ctx context.Context, guildID int64, take int) (*entity.GuildSnapshot, error)
}

// Config identifies the tracked guild and its watermark row.
type Config struct {
	GuildID        int64
	Take           int
	WatermarkGroup string
}

// Key is the watermark key the run reads and writes.
func (c Config) Key() entity.WatermarkKey {
	return entity.WatermarkKey{Group: c.WatermarkGroup, GuildID: c.GuildID}
}

// Service runs the delivery pipeline. Runs must not overlap; the worker
// scheduler guarantees that.
type Service struct {
	Provider      MatchProvider
	WatermarkRepo repository.WatermarkRepository
	NotifyService notify.Service
	config        Config
}

func NewService(
	provider MatchProvider,
	watermarkRepo repository.WatermarkRepository,
	notifyService notify.Service,
	config Config,
) Service {
	if config.Take <= 0 {
		config.Take = DefaultTake
	}
	return Service{
		Provider:      provider,
		WatermarkRepo: watermarkRepo,
		NotifyService: notifyService,
		config:        config,
	}
}

// RunSummary describes one run. On abort it holds the counts reached so far.
type RunSummary struct {
	RunID             string
	Fetched           int
	Skipped           int
	Delivered         int
	PreviousWatermark int64
	Watermark         int64
	Duration          time.Duration
}

// Run executes one pipeline pass:
//
//  1. fetch up to Take matches (newest first)
//  2. load the watermark, treating "never written" as 0
//  3. walk the matches oldest first, skipping ids at or below the watermark
//  4. normalize and broadcast each remaining match; any failure aborts the run
//  5. write the highest delivered id if it is above the previous watermark
//
// The watermark is written only after every selected match reached every
// destination, so an aborted run is retried in full on the next trigger.
// Destinations that already accepted a match in the aborted run receive it
// again; delivery is at-least-once per destination.
func (s *Service) Run(ctx context.Context) (summary *RunSummary, err error) {
	start := time.Now()
	summary = &RunSummary{RunID: uuid.New().String()}

	ctx = logging.ContextWithRunID(ctx, summary.RunID)
	ctx, span := tracing.GetTracer().Start(ctx, "poll.Run")
	logger := logging.WithRunID(ctx, logging.FromContext(ctx)).With(
		slog.Int64("guild_id", s.config.GuildID))

	span.SetAttributes(
		attribute.String("run.id", summary.RunID),
		attribute.Int64("guild.id", s.config.GuildID),
	)

	defer func() {
		summary.Duration = time.Since(start)
		metrics.RecordRun(ResultLabel(err), summary.Duration)
		metrics.RecordMatches(s.config.GuildID, summary.Fetched, summary.Skipped, summary.Delivered)

		span.SetAttributes(
			attribute.Int("matches.fetched", summary.Fetched),
			attribute.Int("matches.delivered", summary.Delivered),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, ResultLabel(err))
			logger.Error("poll run failed",
				slog.Int("fetched", summary.Fetched),
				slog.Int("delivered", summary.Delivered),
				slog.Int64("watermark", summary.Watermark),
				slog.String("error", logging.SanitizeError(err)),
				slog.Duration("duration", summary.Duration))
		} else {
			logger.Info("poll run completed",
				slog.Int("fetched", summary.Fetched),
				slog.Int("skipped", summary.Skipped),
				slog.Int("delivered", summary.Delivered),
				slog.Int64("previous_watermark", summary.PreviousWatermark),
				slog.Int64("watermark", summary.Watermark),
				slog.Duration("duration", summary.Duration))
		}
		span.End()
	}()

	snapshot, err := s.Provider.FetchGuildMatches(ctx, s.config.GuildID, s.config.Take)
	if err != nil {
		return summary, fmt.Errorf("%w: %w", ErrProviderFailed, err)
	}
	if snapshot == nil {
		return summary, fmt.Errorf("%w: empty response", ErrProviderFailed)
	}
	summary.Fetched = len(snapshot.Matches)

	key := s.config.Key()
	current, err := s.WatermarkRepo.Get(ctx, key)
	if err != nil {
		return summary, fmt.Errorf("%w: read: %w", ErrStoreFailed, err)
	}
	var watermark int64
	if current != nil {
		watermark = current.MatchID
	}
	summary.PreviousWatermark = watermark
	summary.Watermark = watermark

	guild := snapshot.Guild()
	highest := watermark

	// provider order is newest first
	for i := len(snapshot.Matches) - 1; i >= 0; i-- {
		raw := snapshot.Matches[i]

		id, err := raw.Identifier()
		if err != nil {
			metrics.RecordNormalizationFailure(missingField(err))
			return summary, fmt.Errorf("%w: %w", ErrNormalizationFailed, err)
		}
		if id <= watermark {
			summary.Skipped++
			continue
		}

		n, err := entity.NewNotification(raw, guild)
		if err != nil {
			metrics.RecordNormalizationFailure(missingField(err))
			return summary, fmt.Errorf("%w: %w", ErrNormalizationFailed, err)
		}

		if err := s.NotifyService.Broadcast(ctx, n); err != nil {
			return summary, fmt.Errorf("%w: match %d: %w", ErrPublishFailed, id, err)
		}
		summary.Delivered++
		logger.Debug("match delivered", slog.Int64("match_id", id))

		if id > highest {
			highest = id
		}
	}

	if highest > watermark {
		if err := s.WatermarkRepo.Put(ctx, key, highest); err != nil {
			return summary, fmt.Errorf("%w: write %d: %w", ErrStoreFailed, highest, err)
		}
		summary.Watermark = highest
		metrics.SetWatermark(key.Group, key.GuildID, highest)
	}

	return summary, nil
}

func missingField(err error) string {
	var mf *entity.MissingFieldError
	if errors.As(err, &mf) {
		return mf.Field
	}
	return ""
}
