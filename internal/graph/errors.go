package graph

import "errors"

var (
	// ErrStoreUnavailable means the connection could not be established after
	// the configured retry attempts. Fatal to a linking run.
	ErrStoreUnavailable = errors.New("graph store unavailable")

	// ErrQuery means a single query or write failed at execution time.
	// Recovered locally by callers; the run continues.
	ErrQuery = errors.New("graph query failed")

	// ErrUnknownCategory means a label was requested that is not on the
	// category allow-list.
	ErrUnknownCategory = errors.New("unknown entity category")
)
