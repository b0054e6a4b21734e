// Package errors provides centralized error definitions and error handling utilities
// for vizlex. It defines the lexicon's failure kinds as sentinel errors, typed
// errors carrying the offending property, and error classification helpers.
//
// # Error Types
//
// Lexicon errors describe contract violations by callers of the registry:
//   - NullArgumentError: a required descriptor argument was absent
//   - UnknownPropertyError: a descriptor is not registered in this lexicon
//   - AlreadyRegisteredError: a descriptor was inserted twice
//
// Supporting errors describe problems outside the registry core:
//   - ValidationError: a value does not fit a property's type or range
//   - SchemaError: an extension schema file could not be applied
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewUnknownPropertyError("NODE_GLOW")
//	err := errors.NewSchemaError("duplicate property", errors.ErrInvalidSchema).
//		WithPath("ext/glow.yaml").WithPropertyID("NODE_GLOW")
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrUnknownProperty) { ... }
//
//	var dup *errors.AlreadyRegisteredError
//	if errors.As(err, &dup) { ... }
//
// # Error Classification
//
// IsUserFacing, GetSeverity and IsLexiconError work on any error. The CLI
// uses them to choose how an error is printed or logged.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Lexicon sentinel errors
var (
	// ErrNullArgument indicates that a required descriptor argument was nil.
	ErrNullArgument = New("null argument")
	// ErrUnknownProperty indicates that a descriptor is not registered in the lexicon.
	ErrUnknownProperty = New("unknown visual property")
	// ErrAlreadyRegistered indicates that a descriptor already has a node.
	ErrAlreadyRegistered = New("visual property already registered")
)

// Value and schema sentinel errors
var (
	// ErrInvalidValue indicates that a value does not fit a property's type or range.
	ErrInvalidValue = New("invalid property value")
	// ErrInvalidSchema indicates that an extension schema file is malformed.
	ErrInvalidSchema = New("invalid schema")
	// ErrUnsupportedFormat indicates a schema file extension with no decoder.
	ErrUnsupportedFormat = New("unsupported schema format")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// VizlexError is the base interface for all vizlex errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type VizlexError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	// This is used by errors.Is() for error comparison.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Lexicon Errors
// -----------------------------------------------------------------------------

// NullArgumentError reports a nil descriptor passed where one is required.
//
// Example:
//
//	err := errors.NewNullArgumentError("parent")
//	fmt.Println(err) // "null argument: parent"
type NullArgumentError struct {
	baseError
	Argument string
}

// NewNullArgumentError creates a new NullArgumentError for the named argument.
func NewNullArgumentError(argument string) *NullArgumentError {
	return &NullArgumentError{
		baseError: baseError{
			message:    "null argument",
			severity:   SeverityError,
			userFacing: true,
		},
		Argument: argument,
	}
}

// Error returns the formatted error message.
func (e *NullArgumentError) Error() string {
	if e.Argument == "" {
		return e.message
	}
	return fmt.Sprintf("%s: %s", e.message, e.Argument)
}

// Is checks if this error matches the target.
func (e *NullArgumentError) Is(target error) bool {
	if _, ok := target.(*NullArgumentError); ok {
		return true
	}
	return target == ErrNullArgument || e.baseError.Is(target)
}

// UnknownPropertyError reports a descriptor that has no node in the lexicon.
//
// Example:
//
//	err := errors.NewUnknownPropertyError("NODE_GLOW")
//	fmt.Println(err) // "visual property 'NODE_GLOW' is not registered"
type UnknownPropertyError struct {
	baseError
	PropertyID string
}

// NewUnknownPropertyError creates a new UnknownPropertyError.
func NewUnknownPropertyError(propertyID string) *UnknownPropertyError {
	return &UnknownPropertyError{
		baseError: baseError{
			message:    fmt.Sprintf("visual property '%s' is not registered", propertyID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		PropertyID: propertyID,
	}
}

// WithCause adds a cause to the error.
func (e *UnknownPropertyError) WithCause(cause error) *UnknownPropertyError {
	e.cause = cause
	return e
}

// Is checks if this error matches the target.
func (e *UnknownPropertyError) Is(target error) bool {
	if _, ok := target.(*UnknownPropertyError); ok {
		return true
	}
	return target == ErrUnknownProperty || e.baseError.Is(target)
}

// AlreadyRegisteredError reports a second insertion of the same descriptor ID.
//
// Example:
//
//	err := errors.NewAlreadyRegisteredError("NODE_FILL_COLOR")
//	fmt.Println(err) // "visual property 'NODE_FILL_COLOR' is already registered"
type AlreadyRegisteredError struct {
	baseError
	PropertyID string
}

// NewAlreadyRegisteredError creates a new AlreadyRegisteredError.
func NewAlreadyRegisteredError(propertyID string) *AlreadyRegisteredError {
	return &AlreadyRegisteredError{
		baseError: baseError{
			message:    fmt.Sprintf("visual property '%s' is already registered", propertyID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		PropertyID: propertyID,
	}
}

// Is checks if this error matches the target.
func (e *AlreadyRegisteredError) Is(target error) bool {
	if _, ok := target.(*AlreadyRegisteredError); ok {
		return true
	}
	return target == ErrAlreadyRegistered || e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Supporting Errors
// -----------------------------------------------------------------------------

// ValidationError represents a value rejected by a property's type or range.
//
// Example:
//
//	err := errors.NewValidationError("outside range [0, 255]").
//		WithField("NODE_TRANSPARENCY").WithValue(300)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidValue {
		return true
	}
	return e.baseError.Is(target)
}

// SchemaError represents a failure to apply an extension schema file.
//
// Example:
//
//	err := errors.NewSchemaError("parent is not declared", errors.ErrUnknownProperty)
//	err = err.WithPath("ext/glow.yaml").WithPropertyID("NODE_GLOW")
//	fmt.Println(err) // "schema error [path=ext/glow.yaml, property=NODE_GLOW]: parent is not declared: unknown visual property"
type SchemaError struct {
	baseError
	Path       string
	PropertyID string
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(message string, cause error) *SchemaError {
	return &SchemaError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPath adds the schema file path to the error context.
func (e *SchemaError) WithPath(path string) *SchemaError {
	e.Path = path
	return e
}

// WithPropertyID adds the offending property ID to the error context.
func (e *SchemaError) WithPropertyID(id string) *SchemaError {
	e.PropertyID = id
	return e
}

// WithSeverity sets the error severity.
func (e *SchemaError) WithSeverity(s Severity) *SchemaError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *SchemaError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.PropertyID != "" {
		parts = append(parts, fmt.Sprintf("property=%s", e.PropertyID))
	}

	prefix := "schema error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("schema error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *SchemaError) Is(target error) bool {
	if _, ok := target.(*SchemaError); ok {
		return true
	}
	return target == ErrInvalidSchema || e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end users.
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    fmt.Fprintln(os.Stderr, err)
//	} else {
//	    fmt.Fprintln(os.Stderr, "internal error")
//	    logger.Error("internal error", "err", err)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var vizErr VizlexError
	if As(err, &vizErr) {
		return vizErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement VizlexError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var vizErr VizlexError
	if As(err, &vizErr) {
		return vizErr.Severity()
	}

	// Default to Error severity for unknown errors
	return SeverityError
}

// IsLexiconError returns true if the error is one of the three registry
// contract violations (null argument, unknown property, already registered).
func IsLexiconError(err error) bool {
	if err == nil {
		return false
	}
	return Is(err, ErrNullArgument) || Is(err, ErrUnknownProperty) || Is(err, ErrAlreadyRegistered)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
// Unlike a bare message, the result still matches the wrapped sentinels.
//
// Example:
//
//	err := errors.Wrap(baseErr, "apply extension schema")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "load %s", path)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
