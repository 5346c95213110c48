// Package errors provides error handling for dtdl2md.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//
// It also defines the failure taxonomy of a generation run. Every failure
// aborts the run; none of them is retried.
//
// Usage:
//
//	if _, err := idx.Lookup(id); err != nil {
//	    return errors.Wrapf(err, "resolve target of %s", rel.Name)
//	}
//
//	if errors.Is(err, errors.ErrRender) {
//	    // schema cycle
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Failure taxonomy.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrapf() to add the failing identifier and operation.
var (
	// ErrNotFound indicates a referenced identifier is absent from the ontology (LookupFailure)
	ErrNotFound = New("not found")

	// ErrRender indicates schema rendering hit a cycle or an unbounded structure (RenderFailure)
	ErrRender = New("render failure")

	// ErrPlacement indicates the extends graph could not be laid out (PlacementFailure)
	ErrPlacement = New("placement failure")

	// ErrInvalidModel indicates an input document could not be turned into an ontology
	ErrInvalidModel = New("invalid model")

	// ErrOutOfDate indicates generated documents differ from the ones on disk
	ErrOutOfDate = New("documents out of date")
)

// NewNotFoundError creates a lookup failure for the given identifier.
func NewNotFoundError(id string) error {
	return Wrapf(ErrNotFound, "%s", id)
}

// NewRenderError creates a render failure reported against a schema identifier.
func NewRenderError(schemaID, format string, args ...interface{}) error {
	return Wrapf(Wrapf(ErrRender, "schema %s", schemaID), format, args...)
}

// NewPlacementError creates a placement failure reported against an interface identifier.
func NewPlacementError(ifaceID, format string, args ...interface{}) error {
	return Wrapf(Wrapf(ErrPlacement, "interface %s", ifaceID), format, args...)
}

// NewInvalidModelError creates an input defect error with a formatted message.
func NewInvalidModelError(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidModel, format, args...)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsRenderError checks if an error is or wraps ErrRender
func IsRenderError(err error) bool {
	return err != nil && Is(err, ErrRender)
}

// IsPlacementError checks if an error is or wraps ErrPlacement
func IsPlacementError(err error) bool {
	return err != nil && Is(err, ErrPlacement)
}
