package systolic

import "errors"

var (
	// ErrInvalidDimension reports a grid or matrix extent that cannot be built
	// (zero, negative, ragged or odd where an even width is required).
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrDimensionMismatch reports operand shapes that do not fit the unit.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidMode reports a dataflow mode name that no unit understands.
	ErrInvalidMode = errors.New("invalid dataflow mode")
	// ErrModeMismatch is returned by ClockAs when the requested dataflow differs
	// from the one fixed at the last reset.
	ErrModeMismatch = errors.New("dataflow mode mismatch")
	// ErrModeLocked is returned when a single-mode unit is asked to change mode.
	ErrModeLocked = errors.New("dataflow mode is locked")
	// ErrSparsityViolation reports a weight pair without a zero element.
	ErrSparsityViolation = errors.New("2:1 sparsity violated")
	// ErrInvalidTag reports a packed weight tag outside {0, 1}.
	ErrInvalidTag = errors.New("invalid weight tag")
)
