package client

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	// ErrValidation marks caller input rejected before any request was sent.
	ErrValidation = errors.New("validation error")
	// ErrAuthentication marks a rejected or failed login exchange.
	ErrAuthentication = errors.New("authentication error")
	// ErrRequest marks a failed non-login request.
	ErrRequest = errors.New("request error")
	// ErrProtocol marks a successful response with an incomplete payload.
	ErrProtocol = errors.New("protocol error")
)

// genericFailure is shown when neither the backend nor the transport gave a message.
const genericFailure = "request failed"

// Error is a user-facing failure. Error() returns Message unchanged so screens
// can display it inline.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

// failure wraps a transport or HTTP error under kind, preferring the backend's message.
func failure(kind, err error) error {
	msg := genericFailure
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr) && httpErr.Message != "":
		msg = httpErr.Message
	case err != nil:
		msg = err.Error()
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// Message returns the user-facing text of err: the Error message for *Error,
// the backend message for *HTTPError, err.Error() otherwise.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
