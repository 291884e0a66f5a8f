// Package errors defines the structured error type shared by the accname
// CLI, configuration loader and audit engine.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeAudit      ErrorType = "audit"
)

// AccnameError is a structured error type with context.
type AccnameError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	FilePath    string
	Line        int
	Recoverable bool
}

// Error implements the error interface.
func (e *AccnameError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	if e.FilePath != "" {
		location := e.FilePath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *AccnameError) Unwrap() error {
	return e.Cause
}

// Is matches another AccnameError with the same type and code.
func (e *AccnameError) Is(target error) bool {
	var t *AccnameError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *AccnameError) WithContext(key string, value interface{}) *AccnameError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithLocation adds file location information.
func (e *AccnameError) WithLocation(filePath string, line int) *AccnameError {
	e.FilePath = filePath
	e.Line = line

	return e
}

// WithComponent adds component context.
func (e *AccnameError) WithComponent(component string) *AccnameError {
	e.Component = component

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *AccnameError {
	return &AccnameError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *AccnameError {
	return &AccnameError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *AccnameError {
	return &AccnameError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewParseError creates an error for input that could not be parsed, such as
// an HTML document or a CSS selector.
func NewParseError(code, message string, cause error) *AccnameError {
	return &AccnameError{
		Type:        ErrorTypeParse,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *AccnameError {
	return &AccnameError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var ae *AccnameError
	if errors.As(err, &ae) {
		return ae.Recoverable
	}

	return false
}

// IsType reports whether err is an AccnameError of the given type.
func IsType(err error, t ErrorType) bool {
	var ae *AccnameError
	if errors.As(err, &ae) {
		return ae.Type == t
	}

	return false
}

// ErrorHandler logs errors according to their type.
type ErrorHandler struct {
	logger Logger
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err. Validation and parse errors are warnings; everything
// else is logged as an error.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var ae *AccnameError
	if !errors.As(err, &ae) {
		h.logger.Error(ctx, err, "Unhandled error occurred")
		return
	}

	switch ae.Type {
	case ErrorTypeValidation, ErrorTypeParse:
		h.logger.Warn(ctx, err, "Input rejected",
			"type", ae.Type,
			"code", ae.Code,
			"file", ae.FilePath)
	default:
		h.logger.Error(ctx, err, "Error occurred",
			"type", ae.Type,
			"code", ae.Code,
			"component", ae.Component)
	}
}

// Common error codes.
const (
	ErrCodeFileNotFound     = "ERR_FILE_NOT_FOUND"
	ErrCodeReadFailed       = "ERR_READ_FAILED"
	ErrCodeInvalidHTML      = "ERR_INVALID_HTML"
	ErrCodeInvalidSelector  = "ERR_INVALID_SELECTOR"
	ErrCodeNoMatch          = "ERR_NO_MATCH"
	ErrCodeUnknownRole      = "ERR_UNKNOWN_ROLE"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeValidationFailed = "ERR_VALIDATION_FAILED"
	ErrCodeAuditFailed      = "ERR_AUDIT_FAILED"
	ErrCodeInternalError    = "ERR_INTERNAL"
)

// ValidationError interface for field-specific validation errors.
type ValidationError interface {
	error
	Field() string
	Value() interface{}
	Suggestions() []string
}

// FieldValidationError implements ValidationError for specific field errors.
type FieldValidationError struct {
	FieldName    string
	FieldValue   interface{}
	ErrorMessage string
	HelpText     []string
}

// Error implements the error interface.
func (fve *FieldValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", fve.FieldName, fve.ErrorMessage)
}

// Field returns the field name that failed validation.
func (fve *FieldValidationError) Field() string {
	return fve.FieldName
}

// Value returns the invalid value.
func (fve *FieldValidationError) Value() interface{} {
	return fve.FieldValue
}

// Suggestions returns helpful suggestions for fixing the error.
func (fve *FieldValidationError) Suggestions() []string {
	return fve.HelpText
}

// NewFieldValidationError creates a new field validation error.
func NewFieldValidationError(
	field string,
	value interface{},
	message string,
	suggestions ...string,
) *FieldValidationError {
	return &FieldValidationError{
		FieldName:    field,
		FieldValue:   value,
		ErrorMessage: message,
		HelpText:     suggestions,
	}
}

// ValidationErrorCollection represents a collection of validation errors.
type ValidationErrorCollection struct {
	Errors []ValidationError
}

// Error implements the error interface.
func (vec *ValidationErrorCollection) Error() string {
	switch len(vec.Errors) {
	case 0:
		return "no validation errors"
	case 1:
		return vec.Errors[0].Error()
	}

	return fmt.Sprintf("validation failed with %d errors", len(vec.Errors))
}

// Add adds a validation error to the collection.
func (vec *ValidationErrorCollection) Add(err ValidationError) {
	vec.Errors = append(vec.Errors, err)
}

// AddField adds a field validation error to the collection.
func (vec *ValidationErrorCollection) AddField(
	field string,
	value interface{},
	message string,
	suggestions ...string,
) {
	vec.Add(NewFieldValidationError(field, value, message, suggestions...))
}

// HasErrors returns true if there are any validation errors.
func (vec *ValidationErrorCollection) HasErrors() bool {
	return len(vec.Errors) > 0
}

// ToAccnameError converts the collection into a single config error, or
// nil when the collection is empty.
func (vec *ValidationErrorCollection) ToAccnameError() *AccnameError {
	if !vec.HasErrors() {
		return nil
	}

	messages := make([]string, 0, len(vec.Errors))
	ctx := make(map[string]interface{}, len(vec.Errors))
	for _, err := range vec.Errors {
		messages = append(messages, err.Error())
		ctx[err.Field()] = map[string]interface{}{
			"value":       err.Value(),
			"suggestions": err.Suggestions(),
		}
	}

	return &AccnameError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeConfigInvalid,
		Message: strings.Join(messages, "; "),
		Context: ctx,
	}
}

// ErrFileNotFound creates an I/O error for a missing input file.
func ErrFileNotFound(path string, cause error) *AccnameError {
	return NewIOError(ErrCodeFileNotFound, "file not found", cause).WithLocation(path, 0)
}

// ErrInvalidSelector creates a parse error for a bad CSS selector.
func ErrInvalidSelector(selector string, cause error) *AccnameError {
	return NewParseError(ErrCodeInvalidSelector, "invalid selector: "+selector, cause)
}

// ErrNoMatch creates a validation error for a selector that matched nothing.
func ErrNoMatch(selector string) *AccnameError {
	return NewValidationError(ErrCodeNoMatch, "no element matches selector: "+selector)
}

// ErrUnknownRole creates a validation error for a role missing from the
// knowledge base.
func ErrUnknownRole(role string) *AccnameError {
	return NewValidationError(ErrCodeUnknownRole, "unknown role: "+role)
}

// ErrAuditFailed reports that an audit found violations at or above the
// fail_on severity.
func ErrAuditFailed(violations int, failOn string) *AccnameError {
	return &AccnameError{
		Type:    ErrorTypeAudit,
		Code:    ErrCodeAuditFailed,
		Message: fmt.Sprintf("%d violation(s) at or above severity %s", violations, failOn),
		Context: map[string]interface{}{"violations": violations, "fail_on": failOn},
	}
}
