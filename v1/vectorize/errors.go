package vectorize

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrMissingAccountID is returned by Config.Validate when no account is set.
	ErrMissingAccountID = errors.New("vectorize: account id is required")

	// ErrMissingCredentials is returned by Config.Validate when neither a bearer
	// token nor an email/key pair is set.
	ErrMissingCredentials = errors.New("vectorize: bearer token or email and api key are required")
)

// ValidationError is returned when an input fails a client-side check.
// No request is sent when a ValidationError is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "vectorize: invalid input: " + e.Reason
	}
	return fmt.Sprintf("vectorize: invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ResponseError is one entry of the remote "errors" list.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// APIError is returned when the remote service answered with a non-2xx status
// or with success=false.
type APIError struct {
	StatusCode int
	Operation  string
	Errors     []ResponseError

	// Body is the raw response body, kept when it could not be decoded as an envelope.
	Body string

	// RetryAfter is the parsed Retry-After header in seconds, 0 when absent.
	RetryAfter int
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "vectorize: %s failed with status %d", e.Operation, e.StatusCode)
	if len(e.Errors) > 0 {
		msgs := make([]string, 0, len(e.Errors))
		for _, re := range e.Errors {
			msgs = append(msgs, fmt.Sprintf("%d: %s", re.Code, re.Message))
		}
		b.WriteString(": ")
		b.WriteString(strings.Join(msgs, "; "))
	} else if e.Body != "" {
		b.WriteString(": ")
		b.WriteString(e.Body)
	}
	return b.String()
}

// Message returns the first remote error message, or the status text.
func (e *APIError) Message() string {
	if len(e.Errors) > 0 && e.Errors[0].Message != "" {
		return e.Errors[0].Message
	}
	if t := http.StatusText(e.StatusCode); t != "" {
		return t
	}
	return e.Error()
}

// TransportError is returned when no response was received.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("vectorize: %s: transport error: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// IsTransportError reports whether err is (or wraps) a *TransportError.
func IsTransportError(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// IsNotFound reports whether the remote service answered 404.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}
