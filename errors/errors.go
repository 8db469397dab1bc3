// Package errors provides error handling for wtu.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// On top of that it defines the error kinds the annotation engine reports to
// its callers: malformed table records, unavailable lookup backends and
// annotation references that do not resolve.
//
// Usage:
//
//	// Wrap with context
//	if err := idx.Load(path); err != nil {
//	    return errors.WrapBackendUnavailable(err, "mention index")
//	}
//
//	// Check kinds
//	if errors.IsMalformedRecord(err) {
//	    // skip the record
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
)

// User-facing messages and details
var (
	WithHint        = crdb.WithHint
	WithHintf       = crdb.WithHintf
	WithDetail      = crdb.WithDetail
	WithDetailf     = crdb.WithDetailf
	WithSafeDetails = crdb.WithSafeDetails
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// GetStack returns the reportable stack trace attached to an error, if any.
var GetStack = crdb.GetReportableStackTrace

// Generic sentinels.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")

	// ErrServiceUnavailable indicates a required service is not available
	ErrServiceUnavailable = New("service unavailable")
)

// Engine error kinds. Use these with errors.Is() and wrap them with
// errors.Wrap() to add context while preserving the kind.
var (
	// ErrMalformedRecord indicates a table record could not be parsed into
	// the relation/annotations shape. The driver skips such records.
	ErrMalformedRecord = New("malformed table record")

	// ErrBackendUnavailable indicates a lookup backend could not be
	// initialized or queried. Fatal to the pipeline instance.
	ErrBackendUnavailable = New("backend unavailable")

	// ErrDanglingReference indicates an annotation locator does not resolve
	// to an existing annotation.
	ErrDanglingReference = New("dangling annotation reference")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsMalformedRecord checks if an error is or wraps ErrMalformedRecord.
func IsMalformedRecord(err error) bool {
	return err != nil && Is(err, ErrMalformedRecord)
}

// IsBackendUnavailable checks if an error is or wraps ErrBackendUnavailable.
func IsBackendUnavailable(err error) bool {
	return err != nil && Is(err, ErrBackendUnavailable)
}

// IsDanglingReference checks if an error is or wraps ErrDanglingReference.
func IsDanglingReference(err error) bool {
	return err != nil && Is(err, ErrDanglingReference)
}

// NewMalformedRecordError creates a malformed-record error with a formatted message.
func NewMalformedRecordError(format string, args ...interface{}) error {
	return Wrap(ErrMalformedRecord, Newf(format, args...).Error())
}

// WrapMalformedRecord marks err as a malformed-record error.
func WrapMalformedRecord(err error, context string) error {
	return Wrap(Wrap(ErrMalformedRecord, err.Error()), context)
}

// WrapBackendUnavailable marks err as a backend failure, keeping err's hints
// and details reachable through the secondary error.
func WrapBackendUnavailable(err error, backend string) error {
	return crdb.WithSecondaryError(
		Wrapf(ErrBackendUnavailable, "%s: %s", backend, err.Error()),
		err,
	)
}

// NewDanglingReferenceError creates a dangling-reference error for a locator.
func NewDanglingReferenceError(locator string) error {
	return Wrapf(ErrDanglingReference, "locator %q", locator)
}
