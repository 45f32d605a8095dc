package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrModelNotFound   = fmt.Errorf("%w: model", ErrNotFound)
	ErrDatasetNotFound = fmt.Errorf("%w: dataset", ErrNotFound)

	// Lifecycle errors
	ErrNotFitted = errors.New("detector is not fitted")

	// Validation errors
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrEmptyMatrix       = errors.New("matrix has no samples or no features")
	ErrRaggedMatrix      = errors.New("matrix rows have inconsistent lengths")
	ErrNonFiniteValue    = errors.New("matrix contains NaN or infinite values")
	ErrDimensionMismatch = errors.New("feature count does not match fitted model")
	ErrDensityInvariant  = errors.New("histogram densities do not integrate to one")
	ErrInsufficientData  = errors.New("insufficient data for analysis")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewParameterError(name string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParameter, name, reason)
}

func NewDimensionError(got, want int) error {
	return fmt.Errorf("%w: got %d features, fitted with %d", ErrDimensionMismatch, got, want)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrEmptyMatrix) ||
		errors.Is(err, ErrRaggedMatrix) ||
		errors.Is(err, ErrNonFiniteValue) ||
		errors.Is(err, ErrDimensionMismatch)
}

func IsNotFittedError(err error) bool {
	return errors.Is(err, ErrNotFitted)
}
