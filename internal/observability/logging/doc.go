// Package logging wraps log/slog for the tracker binaries.
//
// Each poll run carries a run id in its context; WithRunID attaches it to a
// logger so all lines of one run can be grouped. SanitizeError masks the
// STRATZ token, the KOOK bot token, Discord webhook tokens and DSN passwords
// before an error reaches a log line or a handler result.
//
//	ctx = logging.ContextWithRunID(ctx, uuid.NewString())
//	logger := logging.WithRunID(ctx, slog.Default())
//	logger.Info("poll started")
package logging
