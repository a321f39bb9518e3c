// Package errors provides the structured error taxonomy used by the request pipeline and the API layer.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is the classification of a failure. It doubles as the metrics label.
type ErrorType string

const (
	// TypeUnauthorized is an HTTP 401 response.
	TypeUnauthorized ErrorType = "unauthorized"
	// TypeForbidden is an HTTP 403 response.
	TypeForbidden ErrorType = "forbidden"
	// TypeNotFound is an HTTP 404 response.
	TypeNotFound ErrorType = "not_found"
	// TypeServer is an HTTP 500 response.
	TypeServer ErrorType = "server_error"
	// TypeHTTP is any other error status, or a success status with an unreadable body.
	TypeHTTP ErrorType = "http_failure"
	// TypeNetwork means the request was sent but no response arrived.
	TypeNetwork ErrorType = "network"
	// TypeConfiguration means the request could not be built or sent.
	TypeConfiguration ErrorType = "configuration"
	// TypeValidation is rejected input caught before any request is made.
	TypeValidation ErrorType = "validation"
)

// ContextServerMessage is the context key holding the explanation the server sent with an error status.
const ContextServerMessage = "server_message"

// DefaultHTTPMessage is used when the server supplies no message for an error status.
const DefaultHTTPMessage = "request failed"

// Error represents a classified failure with its HTTP status (0 when there was no response).
type Error struct {
	Type    ErrorType
	Status  int
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := string(e.Type)
	if e.Status != 0 {
		prefix = fmt.Sprintf("%s (%d)", e.Type, e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds a context field to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func newError(t ErrorType, status int, message string, cause error) *Error {
	return &Error{
		Type:    t,
		Status:  status,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// UnauthorizedError creates a 401 error.
func UnauthorizedError(message string) *Error {
	return newError(TypeUnauthorized, http.StatusUnauthorized, message, nil)
}

// ForbiddenError creates a 403 error.
func ForbiddenError(message string) *Error {
	return newError(TypeForbidden, http.StatusForbidden, message, nil)
}

// NotFoundError creates a 404 error.
func NotFoundError(message string) *Error {
	return newError(TypeNotFound, http.StatusNotFound, message, nil)
}

// ServerError creates a 500 error.
func ServerError(message string) *Error {
	return newError(TypeServer, http.StatusInternalServerError, message, nil)
}

// HTTPError creates a generic failure for any other status. An empty message falls back to DefaultHTTPMessage.
func HTTPError(status int, message string, cause error) *Error {
	if message == "" {
		message = DefaultHTTPMessage
	}
	return newError(TypeHTTP, status, message, cause)
}

// NetworkError wraps a transport failure where no response was received.
func NetworkError(cause error) *Error {
	return newError(TypeNetwork, 0, "network error, check your connection", cause)
}

// ConfigurationError wraps a failure to build or send a request. The detail stays in Cause.
func ConfigurationError(cause error) *Error {
	return newError(TypeConfiguration, 0, "invalid request configuration", cause)
}

// ValidationError creates a client-side input error.
func ValidationError(message string) *Error {
	return newError(TypeValidation, 0, message, nil)
}

// FromStatus classifies an HTTP error status. message is the server-supplied text, possibly empty.
func FromStatus(status int, message string) *Error {
	var err *Error
	switch status {
	case http.StatusUnauthorized:
		err = UnauthorizedError(orDefault(message, "unauthorized"))
	case http.StatusForbidden:
		err = ForbiddenError(orDefault(message, "access forbidden"))
	case http.StatusNotFound:
		err = NotFoundError(orDefault(message, "resource not found"))
	case http.StatusInternalServerError:
		err = ServerError(orDefault(message, "internal server error"))
	default:
		err = HTTPError(status, message, nil)
	}
	if message != "" {
		err.WithContext(ContextServerMessage, message)
	}
	return err
}

// ServerMessage returns the server-supplied explanation carried by err, or "" when the server sent none.
func ServerMessage(err error) string {
	var structuredErr *Error
	if !errors.As(err, &structuredErr) {
		return ""
	}
	msg, _ := structuredErr.Context[ContextServerMessage].(string)
	return msg
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error (possibly wrapped), it is returned unchanged.
// Otherwise it is treated as a configuration failure, since it never reached the wire.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return ConfigurationError(err)
}

// IsType reports whether err is, or wraps, a structured error of type t.
func IsType(err error, t ErrorType) bool {
	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr.Type == t
	}
	return false
}
