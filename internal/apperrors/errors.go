// Package apperrors defines the error taxonomy shared across the service.
// Callers classify failures with errors.Is and wrap with fmt.Errorf("%w").
package apperrors

import "errors"

var (
	// ErrInvalidArgument marks malformed caller input (bad days/limit,
	// missing required event fields). Never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStoreUnavailable marks an unreachable or timed-out event store.
	ErrStoreUnavailable = errors.New("event store unavailable")

	// ErrCacheUnavailable marks an unreachable cache backend. On the
	// summary path it is handled as a forced cache miss, not a failure.
	ErrCacheUnavailable = errors.New("summary cache unavailable")
)
