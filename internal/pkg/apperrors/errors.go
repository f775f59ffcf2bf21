package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Pipeline failure classes. Every failure of a course request wraps exactly one of them.
var (
	ErrTransport      = errors.New("transport failure")
	ErrResponseStatus = errors.New("unexpected response status")
	ErrDecode         = errors.New("response decode failure")
)

// Dev API errors
var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrCatalogFull      = errors.New("course catalog is full")
	ErrValidationFailed = errors.New("validation failed")
)

// TransportError is a connection level failure: refused, reset, DNS or timeout.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap exposes both the class sentinel and the underlying cause
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// ResponseStatusError reports a non-2xx status. Body holds at most a short prefix of the payload.
type ResponseStatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *ResponseStatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *ResponseStatusError) Unwrap() error {
	return ErrResponseStatus
}

// DecodeError reports a response body that does not have the expected shape.
type DecodeError struct {
	URL    string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode %s: %s", e.URL, e.Reason)
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDecode}
	}
	return []error{ErrDecode, e.Err}
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a ResponseStatusError
func StatusCode(err error) int {
	var statusErr *ResponseStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// NewResourceNotFoundError creates a course-not-found error with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrCourseNotFound,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}
