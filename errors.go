package attrmatch

import (
	"errors"

	"github.com/mharbol/go-attrmatch/attr"
	"github.com/mharbol/go-attrmatch/graph"
	"github.com/mharbol/go-attrmatch/matching"
)

// Category helpers over the typed errors produced by the leaf packages, so
// callers can branch on the failure class without importing them.

// IsNoMatch reports whether err is a no-match resolution failure.
func IsNoMatch(err error) bool {
	var e *matching.NoMatchError
	return errors.As(err, &e)
}

// IsAmbiguous reports whether err is an ambiguous-match resolution failure.
func IsAmbiguous(err error) bool {
	var e *matching.AmbiguousMatchError
	return errors.As(err, &e)
}

// IsTypeConflict reports whether err is an attribute type conflict, a fatal
// configuration error.
func IsTypeConflict(err error) bool {
	var e *attr.TypeConflictError
	return errors.As(err, &e)
}

// IsNotConsumable reports whether err is a selection of a configuration not
// intended for consumption.
func IsNotConsumable(err error) bool {
	var e *graph.NotConsumableError
	return errors.As(err, &e)
}

// IsInvariantViolation reports whether err is a defect in rule authoring
// rather than a legitimate resolution failure.
func IsInvariantViolation(err error) bool {
	var e *matching.InvariantError
	return errors.As(err, &e)
}
