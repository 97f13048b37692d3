package sms

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Match them with errors.Is.
var (
	// ErrValidation is returned for bad input, always before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrAuthentication is returned when the login call fails.
	ErrAuthentication = errors.New("authentication failed")
	// ErrAPIRequest is returned when a send or status call fails.
	ErrAPIRequest = errors.New("api request failed")
)

// Error is the only error type returned by the Skebby client.
type Error struct {
	kind error

	// Code is an HTTP-like status: 422 for validation, the upstream status
	// when the provider answered, 401/500 otherwise.
	Code int
	// Message is a human readable description.
	Message string
	// Body is the raw provider response, when there was one.
	Body string
	// Err is the underlying transport or decoding error, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool { return target == e.kind }

func (e *Error) Unwrap() error { return e.Err }

// Kind returns ErrValidation, ErrAuthentication or ErrAPIRequest.
func (e *Error) Kind() error { return e.kind }

// StatusCode extracts the Code of a client error. It returns 0 for errors
// that did not come from this package.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

func validationFailed(format string, args ...any) *Error {
	return &Error{
		kind:    ErrValidation,
		Code:    http.StatusUnprocessableEntity,
		Message: fmt.Sprintf(format, args...),
	}
}

func authenticationFailed(code int, cause error, format string, args ...any) *Error {
	if code == 0 {
		code = http.StatusUnauthorized
	}
	return &Error{
		kind:    ErrAuthentication,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

func apiRequestFailed(code int, body string, cause error, format string, args ...any) *Error {
	if code == 0 {
		code = http.StatusInternalServerError
	}
	return &Error{
		kind:    ErrAPIRequest,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Body:    body,
		Err:     cause,
	}
}
