package signal

import "errors"

// Domain errors for series and set mutations.
var (
	// ErrEmpty indicates a read from a series with no recorded samples.
	ErrEmpty = errors.New("signal: series has no recorded samples")

	// ErrNotNumeric indicates a NaN or Inf sample value.
	ErrNotNumeric = errors.New("signal: value is not a finite number")

	// ErrOutOfBounds indicates a sample value outside the configured bounds.
	ErrOutOfBounds = errors.New("signal: value outside bounds")

	// ErrDecreasingTime indicates a record at a time earlier than the latest
	// stored time that does not match an existing sample exactly.
	ErrDecreasingTime = errors.New("signal: record time earlier than latest sample")

	// ErrStaleStage indicates an attempt to stage a next-time earlier than
	// the latest recorded time.
	ErrStaleStage = errors.New("signal: staged time earlier than latest sample")

	// ErrDuplicateKey indicates an insert with a key already present in a Set.
	ErrDuplicateKey = errors.New("signal: duplicate key")

	// ErrNotFound indicates a lookup for a key not present in a Set.
	ErrNotFound = errors.New("signal: key not found")
)
