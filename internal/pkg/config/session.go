package config

import "log/slog"

// Session collects the fallbacks of one configuration load so that warnings
// are logged and metrics recorded the same way for every field.
//
//	s := config.NewSession(logger, metrics)
//	cfg.Schedule = config.Take(s, "poll_schedule", config.LoadEnvWithFallback(...))
//	s.Finish()
type Session struct {
	logger    *slog.Logger
	metrics   *ConfigMetrics
	fallbacks int
}

// NewSession creates a session. metrics may be nil.
func NewSession(logger *slog.Logger, metrics *ConfigMetrics) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{logger: logger, metrics: metrics}
}

// Take returns r.Value, logging and counting a fallback under field.
func Take[T any](s *Session, field string, r LoadResult[T]) T {
	if !r.FallbackApplied {
		return r.Value
	}
	s.fallbacks++
	if s.metrics != nil {
		s.metrics.RecordValidationError(field)
		s.metrics.RecordFallback(field, "default")
	}
	for _, warning := range r.Warnings {
		s.logger.Warn("Configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}
	return r.Value
}

// Fallbacks returns how many fields fell back so far.
func (s *Session) Fallbacks() int {
	return s.fallbacks
}

// Finish publishes the fallback gauge and the load timestamp.
func (s *Session) Finish() {
	if s.metrics == nil {
		return
	}
	s.metrics.SetFallbackActive(s.fallbacks > 0)
	s.metrics.RecordLoadTimestamp()
}
