package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound         = errors.New("resource not found")
	ErrRunNotFound      = fmt.Errorf("%w: analysis run", ErrNotFound)
	ErrVariableNotFound = fmt.Errorf("%w: variable", ErrNotFound)

	// ErrMalformedRecord marks a single input record that cannot be
	// normalized. It is absorbed at ingestion and surfaced only as a count.
	ErrMalformedRecord = errors.New("malformed observation record")

	// ErrInsufficientData is returned when a statistical or detection
	// operation is asked to run on too few values to mean anything.
	ErrInsufficientData = errors.New("insufficient data for analysis")

	ErrInvalidPercentile = errors.New("percentile out of range")
	ErrUnsortedSeries    = errors.New("daily series is not in date order")
)

func NewMalformedRecordError(detail string) error {
	return fmt.Errorf("%w: %s", ErrMalformedRecord, detail)
}

func NewInsufficientDataError(have, need int) error {
	return fmt.Errorf("%w: have %d values, need %d", ErrInsufficientData, have, need)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsMalformedRecord(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}
