package poll

import (
	"errors"

	"guild-tracker/internal/observability/logging"
)

// HandlerResult is the operator-facing outcome of one run.
type HandlerResult struct {
	Message string `json:"message"`
}

// ResultFor converts a run error into "Success" or "Failure: {description}".
// Credentials that leaked into error text are masked.
func ResultFor(err error) HandlerResult {
	if err == nil {
		return HandlerResult{Message: "Success"}
	}
	return HandlerResult{Message: "Failure: " + logging.SanitizeError(err)}
}

// ResultLabel maps a run error to the poll_runs_total result label.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrProviderFailed):
		return "provider"
	case errors.Is(err, ErrNormalizationFailed):
		return "normalization"
	case errors.Is(err, ErrPublishFailed):
		return "publish"
	case errors.Is(err, ErrStoreFailed):
		return "store"
	}
	return "unknown"
}
