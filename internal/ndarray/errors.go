package ndarray

import "errors"

var (
	// ErrShapeMismatch is returned when operand shapes cannot be combined.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrIndexOutOfRange is returned for an integer index outside a dimension.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrDType is returned when an operation does not support an element type.
	ErrDType = errors.New("unsupported dtype")

	// ErrInvalidShape is returned for negative dimensions or ragged input.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrSelection is returned for malformed selections.
	ErrSelection = errors.New("invalid selection")
)
