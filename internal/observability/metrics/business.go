package metrics

import (
	"strconv"
	"time"
)

// RecordRun records the result and duration of one poll run.
// Result is "success" or the failure kind.
func RecordRun(result string, duration time.Duration) {
	PollRunsTotal.WithLabelValues(result).Inc()
	PollRunDuration.Observe(duration.Seconds())
}

// RecordMatches records the per-run breakdown of fetched, skipped and delivered matches.
func RecordMatches(guildID int64, fetched, skipped, delivered int) {
	label := strconv.FormatInt(guildID, 10)
	MatchesFetchedTotal.WithLabelValues(label).Add(float64(fetched))
	MatchesSkippedTotal.WithLabelValues(label).Add(float64(skipped))
	MatchesDeliveredTotal.WithLabelValues(label).Add(float64(delivered))
}

// RecordNormalizationFailure records a rejected match record.
func RecordNormalizationFailure(field string) {
	if field == "" {
		field = "unknown"
	}
	NormalizationFailuresTotal.WithLabelValues(field).Inc()
}

// SetWatermark updates the watermark gauge after a successful write or read.
func SetWatermark(group string, guildID, matchID int64) {
	WatermarkValue.WithLabelValues(group, strconv.FormatInt(guildID, 10)).Set(float64(matchID))
}

// RecordProviderRequest records a provider call. Kind is empty on success.
func RecordProviderRequest(kind string, duration time.Duration) {
	result := "success"
	if kind != "" {
		result = "failure"
		ProviderErrorsTotal.WithLabelValues(kind).Inc()
	}
	ProviderRequestDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordDBQuery records the duration of a watermark store operation ("get", "put", "reset").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
