package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNormalization indicates that a raw match could not be turned into a Notification.
	ErrNormalization = errors.New("normalization failed")
)

// MissingFieldError reports a required field that the provider left empty.
// Scope is "match" or "player"; Index is the player position (-1 for match scope).
type MissingFieldError struct {
	Scope   string
	Field   string
	MatchID int64
	Index   int
}

// Error returns a formatted error message for the missing field.
func (e *MissingFieldError) Error() string {
	if e.Scope == scopePlayer {
		return fmt.Sprintf("match %d: player %d: missing field '%s'", e.MatchID, e.Index, e.Field)
	}
	if e.MatchID != 0 {
		return fmt.Sprintf("match %d: missing field '%s'", e.MatchID, e.Field)
	}
	return fmt.Sprintf("match: missing field '%s'", e.Field)
}

// Unwrap lets callers match every missing field with errors.Is(err, ErrNormalization).
func (e *MissingFieldError) Unwrap() error {
	return ErrNormalization
}

const (
	scopeMatch  = "match"
	scopePlayer = "player"
)
