package nestegg

import "errors"

var (
	// ErrInvalidInput is returned when a user supplied value is rejected. No
	// state is changed and nothing is persisted.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNumeric is returned when a projection produces a NaN or an infinite value.
	ErrNumeric = errors.New("numeric error")

	// ErrStaleAnalysis is returned when an analysis result arrives after a
	// more recent one has already been applied.
	ErrStaleAnalysis = errors.New("stale analysis result")
)
