// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error taxonomy for the screening engine. Callers discriminate with
// errors.Is; every error carries wrapped context (which snapshot, which
// source, which query) so an audit reviewer can act on it. None of
// these are silently recovered: PASS must always mean "no match found",
// never "the engine failed to check".
var (
	// ErrConfiguration marks invalid thresholds, top-k, or scoring
	// weights, detected before any scoring occurs.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNotFound marks an unknown snapshot id, or a "latest" request
	// when no snapshot exists yet.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuery marks a query that normalizes to nothing (empty or
	// punctuation-only input).
	ErrInvalidQuery = errors.New("invalid query")

	// ErrStorage marks an unreadable or unwritable snapshot store or
	// audit log.
	ErrStorage = errors.New("storage failure")
)
