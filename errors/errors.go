// Package errors provides error handling for dtogen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing diagnostics
//
// Usage:
//
//	// Wrap with context
//	if err := provider.Resolve(ctx, id, pipeline); err != nil {
//	    return errors.Wrapf(err, "resolve %s", id)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "add a getter= option to the serializer tag")
//
//	// Check errors
//	if errors.Is(err, errors.ErrShapeResolution) {
//	    // report the failing request
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
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Assertions
var (
	AssertionFailedf   = crdb.AssertionFailedf
	IsAssertionFailure = crdb.IsAssertionFailure
)

// Sentinel errors for the generation pipeline.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrShapeResolution indicates no shape satisfies a request's reduction pipeline
	ErrShapeResolution = New("shape resolution failed")

	// ErrInvalidAccess indicates a field is neither accessor-backed nor readable
	ErrInvalidAccess = New("invalid field access")

	// ErrUnexpectedType indicates the walk met a type variant it cannot serialize
	ErrUnexpectedType = New("unexpected type")

	// ErrDuplicateIdentifier indicates two requests produced the same function identifier
	ErrDuplicateIdentifier = New("duplicate function identifier")

	// ErrUnsupportedRoot indicates a shape that cannot be the top level of a function
	ErrUnsupportedRoot = New("unsupported top-level shape")

	// ErrInvalidConfig indicates the generator configuration is malformed
	ErrInvalidConfig = New("invalid configuration")
)

// IsResolutionError checks if an error is or wraps ErrShapeResolution
func IsResolutionError(err error) bool {
	return err != nil && Is(err, ErrShapeResolution)
}

// IsConfigurationError checks if an error stems from user configuration
// (invalid access rules or a malformed config file) rather than from the inputs.
func IsConfigurationError(err error) bool {
	return err != nil && IsAny(err, ErrInvalidAccess, ErrInvalidConfig)
}

// NewResolutionError creates a resolution error with a formatted message
func NewResolutionError(format string, args ...interface{}) error {
	return Wrap(ErrShapeResolution, Newf(format, args...).Error())
}

// NewConfigError creates a configuration error with a formatted message
func NewConfigError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidConfig, Newf(format, args...).Error())
}
