// Package poll implements one delivery run: fetch the guild's recent matches,
// select the ones above the stored watermark, deliver them oldest first to
// every destination and advance the watermark when the whole run succeeded.
package poll

import "errors"

// Sentinel errors classifying why a run aborted. The cause stays in the
// chain; callers match the kind with errors.Is.
var (
	// ErrProviderFailed indicates the match provider call failed or returned
	// no usable guild data. The watermark is untouched.
	ErrProviderFailed = errors.New("provider failed")

	// ErrNormalizationFailed indicates a selected match was missing a
	// required field. No later match is processed and the watermark is untouched.
	ErrNormalizationFailed = errors.New("normalization failed")

	// ErrPublishFailed indicates at least one destination rejected a
	// notification. The watermark is untouched even if earlier matches of the
	// run were delivered.
	ErrPublishFailed = errors.New("publish failed")

	// ErrStoreFailed indicates the watermark could not be read or written.
	ErrStoreFailed = errors.New("watermark store failed")
)
