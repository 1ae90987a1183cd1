package fluid

import "errors"

// Domain errors for solver operations.
var (
	// ErrInvalidTimestep indicates a non-finite, non-positive or runaway dt.
	ErrInvalidTimestep = errors.New("fluid: invalid timestep")

	// ErrInvalidParameter indicates a coefficient or size outside its valid range.
	ErrInvalidParameter = errors.New("fluid: invalid parameter")

	// ErrDimensionMismatch indicates fields of different grid sizes.
	ErrDimensionMismatch = errors.New("fluid: dimension mismatch between fields")
)
