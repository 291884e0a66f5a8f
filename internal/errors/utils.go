package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Wrap wraps err as an AccnameError of the given type. An AccnameError
// cause keeps its component and location.
func Wrap(err error, errType ErrorType, code, message string) *AccnameError {
	if err == nil {
		return nil
	}

	var ae *AccnameError
	if errors.As(err, &ae) {
		return &AccnameError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       ae,
			Context:     ae.Context,
			Component:   ae.Component,
			FilePath:    ae.FilePath,
			Line:        ae.Line,
			Recoverable: ae.Recoverable,
		}
	}

	return &AccnameError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeParse,
	}
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *AccnameError {
	ae := Wrap(err, ErrorTypeIO, code, message)
	if ae != nil {
		ae.Recoverable = false
	}
	return ae
}

// WrapParse wraps an error as a parse error
func WrapParse(err error, code, message string) *AccnameError {
	return Wrap(err, ErrorTypeParse, code, message)
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *AccnameError {
	ae := Wrap(err, ErrorTypeConfig, code, message)
	if ae != nil {
		ae.Recoverable = false
	}
	return ae
}

// FormatErrorWithSuggestions formats err for the terminal, listing the
// suggestions of every field validation error it carries.
func FormatErrorWithSuggestions(err error) string {
	if err == nil {
		return ""
	}

	var vec *ValidationErrorCollection
	if errors.As(err, &vec) {
		var b strings.Builder
		b.WriteString(vec.Error())
		for _, ve := range vec.Errors {
			b.WriteString("\n  - " + ve.Error())
			for _, s := range ve.Suggestions() {
				b.WriteString(fmt.Sprintf("\n      %s", s))
			}
		}
		return b.String()
	}

	var ve ValidationError
	if errors.As(err, &ve) {
		result := ve.Error()
		if suggestions := ve.Suggestions(); len(suggestions) > 0 {
			result += "\n\nSuggestions:"
			for _, suggestion := range suggestions {
				result += fmt.Sprintf("\n  • %s", suggestion)
			}
		}
		return result
	}

	return err.Error()
}

// ExitCode maps an error to a process exit status: 0 for nil, 2 for
// rejected input or configuration, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var ae *AccnameError
	if errors.As(err, &ae) {
		switch ae.Type {
		case ErrorTypeValidation, ErrorTypeParse, ErrorTypeConfig:
			return 2
		}
	}
	return 1
}
