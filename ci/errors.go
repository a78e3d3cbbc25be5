package ci

import "errors"

// Every message is prefixed with "ci: ". Callers match with errors.Is; call
// sites add context with fmt.Errorf("...: %w", ErrX).
var (
	// ErrOutOfRange indicates a row, column or reference index outside the operator.
	ErrOutOfRange = errors.New("ci: index out of range")

	// ErrDimensionMismatch indicates a vector whose length does not match the operator.
	ErrDimensionMismatch = errors.New("ci: dimension mismatch")

	// ErrThreadCount indicates the thread count provider returned fewer than 1.
	ErrThreadCount = errors.New("ci: thread count must be >= 1")

	// ErrBadShape indicates requested rows/cols exceed the basis sizes.
	ErrBadShape = errors.New("ci: invalid operator shape")

	// ErrBasisMismatch indicates the integrals, row basis and column basis do
	// not describe the same orbital space.
	ErrBasisMismatch = errors.New("ci: basis mismatch")

	// ErrUnsupportedBasis indicates a basis encoding without a row builder, or
	// a seniority-zero basis paired with integrals lacking the reduced tables.
	ErrUnsupportedBasis = errors.New("ci: unsupported basis")

	// ErrInvalidCSR indicates externally supplied CSR arrays violate the
	// container invariants.
	ErrInvalidCSR = errors.New("ci: invalid CSR structure")
)
