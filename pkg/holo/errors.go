package holo

import "errors"

// Sentinel errors returned by the numeric engine.
var (
	// ErrInvalidSize is returned when a width or height is not positive or a
	// backing slice does not hold width*height samples.
	ErrInvalidSize = errors.New("holo: invalid size")

	// ErrSizeMismatch is returned when two operands that must share
	// dimensions (a matrix and a plan, a frame and a stack) do not.
	ErrSizeMismatch = errors.New("holo: size mismatch")

	// ErrFrameIndex is returned when a frame index is out of range.
	ErrFrameIndex = errors.New("holo: frame index out of range")

	// ErrInvalidLength is returned for unparsable or non-physical lengths.
	ErrInvalidLength = errors.New("holo: invalid length")
)
