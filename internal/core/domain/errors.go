package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Error kinds. Each is fatal for the map being processed only.

	// ErrConfiguration indicates unresolvable identifiers or inconsistent units.
	ErrConfiguration = errors.New("configuration error")

	// ErrDataIntegrity indicates reference data that violates its contract.
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrPolicy indicates an invalid selection or search policy value.
	ErrPolicy = errors.New("policy error")

	// Configuration Errors.

	// ErrUnknownMap indicates a map id absent from the catalog.
	ErrUnknownMap = fmt.Errorf("%w: unknown map", ErrConfiguration)

	// ErrUnknownDatabase indicates a database id absent from the catalog.
	ErrUnknownDatabase = fmt.Errorf("%w: unknown database", ErrConfiguration)

	// ErrUnitMismatch indicates a position and a feature table use different units.
	ErrUnitMismatch = fmt.Errorf("%w: coordinate unit mismatch", ErrConfiguration)

	// ErrUnsupportedUnit indicates the map carries no coordinates in the requested unit.
	ErrUnsupportedUnit = fmt.Errorf("%w: unit not available for map", ErrConfiguration)

	// Data Integrity Errors.

	// ErrChromosomeOutOfRange indicates a coordinate lookup returned a chromosome
	// the map does not declare.
	ErrChromosomeOutOfRange = fmt.Errorf("%w: chromosome out of range", ErrDataIntegrity)

	// ErrFeaturesUnsorted indicates a feature table not sorted by chromosome and coordinate.
	ErrFeaturesUnsorted = fmt.Errorf("%w: feature table not sorted", ErrDataIntegrity)

	// Policy Errors.

	// ErrInvalidSelectionMode indicates an unrecognised selection mode.
	ErrInvalidSelectionMode = fmt.Errorf("%w: invalid selection mode", ErrPolicy)

	// ErrInvalidThreshold indicates identity or coverage outside [0,100].
	ErrInvalidThreshold = fmt.Errorf("%w: invalid threshold", ErrPolicy)

	// ErrNegativeWindow indicates a negative search window.
	ErrNegativeWindow = fmt.Errorf("%w: negative window", ErrPolicy)

	// ErrInvalidWindowMode indicates an unrecognised windowed search mode.
	ErrInvalidWindowMode = fmt.Errorf("%w: invalid window mode", ErrPolicy)
)

// MapError reports the failure of a single map's pipeline.
// Other maps of the same run are unaffected.
type MapError struct {
	// MapID is the map whose processing failed.
	MapID string

	// Err is the underlying error, wrapping one of the error kinds.
	Err error
}

// Error implements the error interface.
func (e *MapError) Error() string {
	return fmt.Sprintf("map %s: %v", e.MapID, e.Err)
}

// Unwrap returns the underlying error.
func (e *MapError) Unwrap() error {
	return e.Err
}

// ErrorKind returns the kind sentinel wrapped by err, or nil if err is not one of
// ErrConfiguration, ErrDataIntegrity or ErrPolicy.
func ErrorKind(err error) error {
	for _, kind := range []error{ErrConfiguration, ErrDataIntegrity, ErrPolicy} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
