/*
errors.go - Centralized error types for the zone engine

PURPOSE:
  All build-time error values in one place. Queries on built zones never
  fail; only construction (and decoding) can, so every sentinel here is a
  construction error in the sense that no zone is produced when it surfaces.

ERROR CATEGORIES:
  1. Input errors - bad builder arguments (mode, id)
  2. Invariant errors - the merge produced an invalid transition sequence
  3. Boundary errors - calendar arithmetic stalled at the timeline edge

USAGE:
  if errors.Is(err, zone.ErrInvalidMode) { ... }

SEE ALSO:
  - builder.go: surfaces these from Build
  - codec.go: wraps ErrInvalidSequence on decode
*/
package zone

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMode is returned when a cutover or rule uses a reference
	// mode other than 'u', 'w' or 's'.
	ErrInvalidMode = errors.New("invalid reference mode")

	// ErrMissingID is returned by Build when the zone id is empty.
	ErrMissingID = errors.New("zone id must not be empty")

	// ErrInvalidSequence is returned when the compiled transition sequence
	// violates the successor invariant (non-ascending instants, or adjacent
	// entries that change neither wall offset nor name).
	ErrInvalidSequence = errors.New("invalid transition sequence")

	// ErrOverflow signals that a recurrence resolution ran off the end of
	// the representable timeline. It is recovered internally wherever the
	// query contract must stay total, and only surfaces from Build when an
	// explicit cutover itself cannot be resolved.
	ErrOverflow = errors.New("instant arithmetic overflow")
)

// invalidModeError reports the offending mode character.
func invalidModeError(mode byte) error {
	return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
}

// invalidSequenceError reports which zone failed validation.
func invalidSequenceError(id string) error {
	return fmt.Errorf("%w: zone %s", ErrInvalidSequence, id)
}
