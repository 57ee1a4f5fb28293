// Package errors defines the structured error type shared by the smartedit
// core and its callers. Every failure in the edit pipeline is local and
// recoverable; callers map errors to user feedback with UserMessage.
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
	ErrorTypeResolution ErrorType = "resolution"
	ErrorTypeMutation   ErrorType = "mutation"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeEmptyInput       = "ERR_EMPTY_INPUT"
	ErrCodeInvalidInput     = "ERR_INVALID_INPUT"
	ErrCodeUnresolvedIntent = "ERR_UNRESOLVED_INTENT"
	ErrCodeTargetNotFound   = "ERR_TARGET_NOT_FOUND"
	ErrCodeParseFailure     = "ERR_PARSE_FAILURE"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeFileNotFound     = "ERR_FILE_NOT_FOUND"
	ErrCodeDocumentNotFound = "ERR_DOCUMENT_NOT_FOUND"
	ErrCodeInternalError    = "ERR_INTERNAL"
)

// EditError is a structured error type with context.
type EditError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	Recoverable bool
}

// Error implements the error interface.
func (e *EditError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}
	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *EditError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code, so sentinels compare equal to any error
// constructed for the same condition.
func (e *EditError) Is(target error) bool {
	var t *EditError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *EditError) WithContext(key string, value interface{}) *EditError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *EditError) WithComponent(component string) *EditError {
	e.Component = component

	return e
}

// Sentinels for errors.Is comparisons.
var (
	ErrEmptyInput       = &EditError{Type: ErrorTypeValidation, Code: ErrCodeEmptyInput}
	ErrUnresolvedIntent = &EditError{Type: ErrorTypeResolution, Code: ErrCodeUnresolvedIntent}
	ErrTargetNotFound   = &EditError{Type: ErrorTypeMutation, Code: ErrCodeTargetNotFound}
	ErrParseFailure     = &EditError{Type: ErrorTypeParse, Code: ErrCodeParseFailure}
	ErrDocumentNotFound = &EditError{Type: ErrorTypeValidation, Code: ErrCodeDocumentNotFound}
)

// NewEmptyInputError reports a blank edit request.
func NewEmptyInputError() *EditError {
	return &EditError{
		Type:        ErrorTypeValidation,
		Code:        ErrCodeEmptyInput,
		Message:     "input required",
		Recoverable: true,
	}
}

// NewUnresolvedIntentError reports a request that named no known component
// or no actionable change. The input is preserved so the caller can offer it
// back for retry.
func NewUnresolvedIntentError(input string) *EditError {
	return (&EditError{
		Type:        ErrorTypeResolution,
		Code:        ErrCodeUnresolvedIntent,
		Message:     "unable to parse request",
		Recoverable: true,
	}).WithContext("input", input)
}

// NewTargetNotFoundError reports a component missing from the live document.
func NewTargetNotFoundError(componentID string) *EditError {
	return (&EditError{
		Type:        ErrorTypeMutation,
		Code:        ErrCodeTargetNotFound,
		Message:     "target element not found in document",
		Recoverable: true,
	}).WithComponent(componentID)
}

// NewParseError reports an unreadable document.
func NewParseError(cause error) *EditError {
	return &EditError{
		Type:        ErrorTypeParse,
		Code:        ErrCodeParseFailure,
		Message:     "failed to parse HTML document",
		Cause:       cause,
		Recoverable: true,
	}
}

// NewDocumentNotFoundError reports an unknown workspace document.
func NewDocumentNotFoundError(id string) *EditError {
	return (&EditError{
		Type:        ErrorTypeValidation,
		Code:        ErrCodeDocumentNotFound,
		Message:     "document not found",
		Recoverable: true,
	}).WithContext("document", id)
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *EditError {
	return &EditError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *EditError {
	return &EditError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeConfigInvalid,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(message string, cause error) *EditError {
	return &EditError{
		Type:    ErrorTypeInternal,
		Code:    ErrCodeInternalError,
		Message: message,
		Cause:   cause,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var ee *EditError
	if errors.As(err, &ee) {
		return ee.Recoverable
	}

	return false
}

// CodeOf returns the error code, or ErrCodeInternalError for foreign errors.
func CodeOf(err error) string {
	var ee *EditError
	if errors.As(err, &ee) {
		return ee.Code
	}

	return ErrCodeInternalError
}

// UserMessage maps an error to the feedback shown next to the edit input.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return "Please enter an edit request."
	case errors.Is(err, ErrUnresolvedIntent):
		return "Unable to parse request. Please be more specific, e.g. \"make the header bigger\"."
	case errors.Is(err, ErrTargetNotFound):
		return "That component is no longer in the page. Refresh the component list and try again."
	case errors.Is(err, ErrDocumentNotFound):
		return "Document not found."
	default:
		return "Something went wrong applying the edit."
	}
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// ErrorHandler provides centralized error handling.
type ErrorHandler struct {
	logger Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err at a level matching its recoverability.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var ee *EditError
	if !errors.As(err, &ee) {
		h.logger.Error(ctx, err, "Unhandled error occurred")
		return
	}

	if ee.Recoverable {
		h.logger.Warn(ctx, ee, "Edit request failed",
			"type", ee.Type,
			"code", ee.Code,
			"component", ee.Component)
		return
	}

	h.logger.Error(ctx, ee, "Error occurred",
		"type", ee.Type,
		"code", ee.Code,
		"component", ee.Component)
}
