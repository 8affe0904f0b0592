// Package apperr defines the error taxonomy shared by services and HTTP handlers.
package apperr

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
)

// Code identifies the class of a failure.
type Code string

const (
	CodeValidation   Code = "validation_failed" // Malformed input
	CodeUnauthorized Code = "unauthorized"      // Missing or rejected identity
	CodeNotFound     Code = "not_found"         // Absent or not visible
	CodeConflict     Code = "conflict"          // Uniqueness violation
	CodeInternal     Code = "internal_error"    // Store or signing failure
)

// Error is a failure carrying the HTTP status and a reason safe to show the caller.
type Error struct {
	Code       Code   // Failure class
	Message    string // Reason shown to the caller
	HTTPStatus int    // Response status
	Err        error  // Wrapped cause, never shown to the caller
}

func (e *Error) Error() string {
	// Include the cause in logs
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports malformed input (422).
func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message, HTTPStatus: http.StatusUnprocessableEntity}
}

// Unauthorized reports a missing or rejected identity (401).
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// NotFound reports a resource that is absent or not visible to the caller (404).
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// Conflict reports a uniqueness violation (409).
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message, HTTPStatus: http.StatusConflict}
}

// Internal wraps an unexpected store or signing failure (500).
func Internal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}

// From resolves any error into an *Error. Errors outside the taxonomy become Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error // Taxonomy error anywhere in the chain
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err) // Hide unknown failures
}

// Is reports whether err belongs to the given class.
func Is(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}

// Response is the JSON body written for a failed request.
type Response struct {
	Error string `json:"error"` // Reason
	Code  Code   `json:"code"`  // Failure class
}

// Response returns the body for e. Only Message is exposed, never the wrapped cause.
func (e *Error) Response() Response {
	return Response{Error: e.Message, Code: e.Code}
}
