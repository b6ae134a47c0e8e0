// Package domain defines domain-level errors and request values for the candles feature.
package domain

import "errors"

// Error kinds surfaced by the fetch pipeline.
// Callers are expected to classify failures with errors.Is; the underlying cause,
// when there is one, stays reachable through the wrap chain.
var (
	// ErrInvalidConfig indicates a malformed cutoff override structure.
	// It is raised when a fetcher is constructed and is never retried.
	ErrInvalidConfig = errors.New("invalid cutoff configuration")

	// ErrInvalidArgument indicates an unsupported period or interval string.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTickerNotFound indicates that the symbol metadata could not be resolved.
	ErrTickerNotFound = errors.New("ticker not found")

	// ErrConnectionFailure indicates that every download attempt was used up
	// and the last one failed with an error.
	ErrConnectionFailure = errors.New("market data connection failure")

	// ErrDataEmpty indicates that no bars were available, either from the
	// provider or after unfinished sessions were filtered out.
	ErrDataEmpty = errors.New("market data empty")

	// ErrUnexpected wraps any failure that does not belong to the kinds above.
	ErrUnexpected = errors.New("unexpected fetch error")
)

// IsKnown reports whether err already belongs to one of the classified kinds.
func IsKnown(err error) bool {
	for _, kind := range []error{
		ErrInvalidConfig,
		ErrInvalidArgument,
		ErrTickerNotFound,
		ErrConnectionFailure,
		ErrDataEmpty,
		ErrUnexpected,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
