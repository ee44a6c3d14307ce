// Package errors provides centralized error definitions and error handling utilities
// for the bcnf codebase. It defines sentinel errors, domain-specific error types,
// error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain-specific errors represent failures of a particular subsystem:
//   - DependencyError: a malformed functional dependency in the input
//   - DecompositionError: the decomposition loop failed (did not converge, canceled)
//   - VerifyError: the lossless-join check failed or could not run
//
// Semantic errors represent common error conditions:
//   - NotFoundError: an attribute, relation or file could not be found
//   - ValidationError: invalid input or configuration
//
// # Usage
//
//	err := errors.NewDependencyError("left-hand side is empty", errors.ErrEmptyDeterminant).
//		WithIndex(2).WithDependency("{} -> b")
//
//	if errors.Is(err, errors.ErrEmptyDeterminant) { ... }
//
//	var decompErr *errors.DecompositionError
//	if errors.As(err, &decompErr) { ... }
//
// # Error Classification
//
// Errors carry a Severity and a user-facing flag. The CLI prints user-facing
// errors verbatim and logs everything else.
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

// Input-related sentinel errors
var (
	// ErrEmptyDeterminant indicates a dependency with an empty left-hand side.
	ErrEmptyDeterminant = New("dependency has an empty left-hand side")
	// ErrEmptyDependent indicates a dependency with an empty right-hand side.
	ErrEmptyDependent = New("dependency has an empty right-hand side")
	// ErrEmptyRelation indicates a relation with no attributes.
	ErrEmptyRelation = New("relation has no attributes")
	// ErrUnknownAttribute indicates a reference to an attribute the relation does not define.
	ErrUnknownAttribute = New("unknown attribute")
	// ErrUnknownFormat indicates an unsupported input or output format.
	ErrUnknownFormat = New("unknown format")
)

// Decomposition-related sentinel errors
var (
	// ErrNotConverged indicates that decomposition hit its iteration cap.
	ErrNotConverged = New("decomposition did not converge")
)

// Verification-related sentinel errors
var (
	// ErrLossyJoin indicates that joining the decomposed relations does not
	// reproduce the original instance.
	ErrLossyJoin = New("decomposition is not lossless")
	// ErrInstanceViolatesDependency indicates sample rows that break a dependency.
	ErrInstanceViolatesDependency = New("instance violates dependency")
)

// General sentinel errors
var (
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// BCNFError is the base interface for all errors defined in this package.
type BCNFError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

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

// format renders "prefix [k=v, ...]: message: cause".
func (e *baseError) format(prefix string, parts []string) string {
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// DependencyError reports a malformed functional dependency.
//
// Example:
//
//	err := errors.NewDependencyError("invalid dependency", errors.ErrEmptyDependent).
//		WithIndex(0).WithDependency("a -> {}")
//	fmt.Println(err) // "dependency error [index=0, dependency=a -> {}]: invalid dependency: dependency has an empty right-hand side"
type DependencyError struct {
	baseError
	Index      int
	Dependency string
}

// NewDependencyError creates a new DependencyError. Index defaults to -1 (unknown).
func NewDependencyError(message string, cause error) *DependencyError {
	return &DependencyError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Index: -1,
	}
}

// WithIndex records the position of the dependency in the input list.
func (e *DependencyError) WithIndex(i int) *DependencyError {
	e.Index = i
	return e
}

// WithDependency records the display form of the offending dependency.
func (e *DependencyError) WithDependency(dep string) *DependencyError {
	e.Dependency = dep
	return e
}

// Error returns the formatted error message.
func (e *DependencyError) Error() string {
	var parts []string
	if e.Index >= 0 {
		parts = append(parts, fmt.Sprintf("index=%d", e.Index))
	}
	if e.Dependency != "" {
		parts = append(parts, fmt.Sprintf("dependency=%s", e.Dependency))
	}
	return e.format("dependency error", parts)
}

// Is checks if this error matches the target.
func (e *DependencyError) Is(target error) bool {
	if _, ok := target.(*DependencyError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// DecompositionError reports a failure of the decomposition loop itself.
//
// Example:
//
//	err := errors.NewDecompositionError("stopped after iteration cap", errors.ErrNotConverged).
//		WithIterations(1000).WithRelations(37)
type DecompositionError struct {
	baseError
	Iterations int
	Relations  int
}

// NewDecompositionError creates a new DecompositionError.
func NewDecompositionError(message string, cause error) *DecompositionError {
	return &DecompositionError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithIterations records how many split passes ran before the failure.
func (e *DecompositionError) WithIterations(n int) *DecompositionError {
	e.Iterations = n
	return e
}

// WithRelations records the size of the working relation list at failure.
func (e *DecompositionError) WithRelations(n int) *DecompositionError {
	e.Relations = n
	return e
}

// WithSeverity sets the error severity.
func (e *DecompositionError) WithSeverity(s Severity) *DecompositionError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *DecompositionError) Error() string {
	var parts []string
	if e.Iterations > 0 {
		parts = append(parts, fmt.Sprintf("iterations=%d", e.Iterations))
	}
	if e.Relations > 0 {
		parts = append(parts, fmt.Sprintf("relations=%d", e.Relations))
	}
	return e.format("decomposition error", parts)
}

// Is checks if this error matches the target.
func (e *DecompositionError) Is(target error) bool {
	if _, ok := target.(*DecompositionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// VerifyError reports a failed or inconclusive lossless-join check.
//
// Example:
//
//	err := errors.NewVerifyError("join produced spurious rows", errors.ErrLossyJoin).WithTable("r2")
type VerifyError struct {
	baseError
	Table string
	Query string
}

// NewVerifyError creates a new VerifyError.
func NewVerifyError(message string, cause error) *VerifyError {
	return &VerifyError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithTable records the SQL table involved.
func (e *VerifyError) WithTable(table string) *VerifyError {
	e.Table = table
	return e
}

// WithQuery records the SQL statement that failed. Queries are internal
// detail, so attaching one marks the error as not user-facing.
func (e *VerifyError) WithQuery(query string) *VerifyError {
	e.Query = query
	e.userFacing = false
	return e
}

// Error returns the formatted error message.
func (e *VerifyError) Error() string {
	var parts []string
	if e.Table != "" {
		parts = append(parts, fmt.Sprintf("table=%s", e.Table))
	}
	return e.format("verify error", parts)
}

// Is checks if this error matches the target.
func (e *VerifyError) Is(target error) bool {
	if _, ok := target.(*VerifyError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a missing resource.
//
// Example:
//
//	err := errors.NewNotFoundError("attribute", "passport number")
//	fmt.Println(err) // "attribute not found: passport number"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s not found", resourceType),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s not found: %s", e.ResourceType, e.ResourceID)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if e.ResourceType == "attribute" && errors.Is(target, ErrUnknownAttribute) {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or configuration.
//
// Example:
//
//	err := errors.NewValidationError("must be one of: text, json, yaml, sql").
//		WithField("output.format").WithValue("xml")
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
	return e.format("validation error", parts)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var bcnfErr BCNFError
	if As(err, &bcnfErr) {
		return bcnfErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement BCNFError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var bcnfErr BCNFError
	if As(err, &bcnfErr) {
		return bcnfErr.Severity()
	}
	return SeverityError
}

// IsDomainError returns true if the error is a domain-specific error
// (DependencyError, DecompositionError, or VerifyError).
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}

	var depErr *DependencyError
	var decompErr *DecompositionError
	var verifyErr *VerifyError

	return As(err, &depErr) || As(err, &decompErr) || As(err, &verifyErr)
}

// IsSemanticError returns true if the error is a semantic error
// (NotFoundError or ValidationError).
func IsSemanticError(err error) bool {
	if err == nil {
		return false
	}

	var notFound *NotFoundError
	var validation *ValidationError

	return As(err, &notFound) || As(err, &validation)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
