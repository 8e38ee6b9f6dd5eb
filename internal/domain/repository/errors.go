package repository

import "errors"

var (
	// ErrStoreUnavailable marks a transient persistence failure. The webhook
	// gateway surfaces it as a retryable response so the provider resubmits.
	ErrStoreUnavailable = errors.New("event store unavailable")

	// ErrSourceUnavailable marks a failed roster snapshot fetch. The
	// reconciler skips the cycle and keeps its previous published state.
	ErrSourceUnavailable = errors.New("roster source unavailable")
)
