package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrStudyNotFound   = fmt.Errorf("%w: study", ErrNotFound)
	ErrSubjectNotFound = fmt.Errorf("%w: subject", ErrNotFound)

	// Aggregation errors
	ErrUnknownVariableType = errors.New("variable has no categorical or continuous type metadata")
	ErrEmptyCohort         = errors.New("cohort contains no records")

	// Table transformation errors
	ErrUnknownReference    = errors.New("unknown row or column reference")
	ErrInvalidMergePattern = errors.New("merge pattern does not match source column count")
	ErrAlreadyMerged       = errors.New("column already consumed by a merge")
	ErrNotBound            = errors.New("table has no bound summary data")
)

// Error constructors with context
func NewUnknownReferenceError(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrUnknownReference, kind, id)
}

func NewUnknownVariableTypeError(key string) error {
	return fmt.Errorf("%w: variable %q", ErrUnknownVariableType, key)
}

func NewMergePatternError(pattern string, sources int) error {
	return fmt.Errorf("%w: pattern %q for %d source columns", ErrInvalidMergePattern, pattern, sources)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsTransformError(err error) bool {
	return errors.Is(err, ErrUnknownReference) ||
		errors.Is(err, ErrInvalidMergePattern) ||
		errors.Is(err, ErrAlreadyMerged) ||
		errors.Is(err, ErrNotBound)
}
