package graph

import "github.com/pkg/errors"

// Sentinel errors. Errors reported by graph building or by Session.Run wrap one
// of these when the failure falls in its category; test with errors.Is.
var (
	// ErrShapeMismatch reports shapes that cannot be combined (broadcasting,
	// reshaping, matrix products).
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrDTypeMismatch reports operands or feeds with incompatible data types.
	ErrDTypeMismatch = errors.New("dtype mismatch")

	// ErrNotFed reports a placeholder reached during evaluation without a value.
	ErrNotFed = errors.New("placeholder not fed")

	// ErrInvalidArgument reports a failed assertion or an argument outside the
	// accepted range (e.g. a negative rank).
	ErrInvalidArgument = errors.New("invalid argument")
)
