package targets

import "errors"

var (
	// ErrNotSquare is returned when a matrix argument must be square but is not.
	ErrNotSquare = errors.New("matrix is not square")
	// ErrNotMatrix is returned when nested slices do not form a 2D matrix.
	ErrNotMatrix = errors.New("input is not a 2D matrix")
	// ErrDimMismatch is returned when operand shapes are incompatible.
	ErrDimMismatch = errors.New("dimension mismatch")
	// ErrInvalidSize is returned for non-positive component, dimension or sample counts.
	ErrInvalidSize = errors.New("invalid size")
	// ErrInvalidParameters is returned when distribution parameters are rejected.
	ErrInvalidParameters = errors.New("invalid distribution parameters")
)
