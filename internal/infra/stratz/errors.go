package stratz

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a provider failure.
type ErrorKind string

const (
	// KindTransport covers network failures and non-2xx responses.
	KindTransport ErrorKind = "transport"
	// KindGraphQL is a 2xx response whose errors list is non-empty.
	KindGraphQL ErrorKind = "graphql"
	// KindEmpty is a response without a usable guild or match list.
	KindEmpty ErrorKind = "empty"
)

// ErrProvider is matched by every *ProviderError via errors.Is.
var ErrProvider = errors.New("match provider failed")

// ProviderError is returned by Client.FetchGuildMatches.
type ProviderError struct {
	Kind ErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("stratz %s: %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

// KindOf returns the kind of a provider error, or "" when err is not one.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

func transportErr(err error) error { return &ProviderError{Kind: KindTransport, Err: err} }

func emptyErr(what string) error {
	return &ProviderError{Kind: KindEmpty, Err: fmt.Errorf("response has no %s", what)}
}
