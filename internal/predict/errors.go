package predict

import (
	"errors"
	"fmt"
	"time"
)

// DefaultErrorMessage is shown when the service gives no reason for a failure.
const DefaultErrorMessage = "Failed to get prediction. Please try again."

// NetworkError means no response was received.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: no response: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError means the response did not arrive in time.
type TimeoutError struct {
	Op      string
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s %s: no response within %s", e.Op, e.URL, e.Timeout)
}

// ServerError is a non-2xx response or a response that could not be understood.
type ServerError struct {
	Op         string
	StatusCode int
	// Message is the server-supplied reason, or a generic message.
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: server error %d: %s", e.Op, e.StatusCode, e.Message)
}

// UserMessage returns the text to show a user for err.
func UserMessage(err error) string {
	var se *ServerError
	var te *TimeoutError
	var ne *NetworkError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		return se.Message
	case errors.As(err, &te):
		return "The prediction service did not respond in time. Please try again."
	case errors.As(err, &ne):
		return "Could not reach the prediction service. Check your connection and try again."
	default:
		return DefaultErrorMessage
	}
}

// IsRetryable reports whether repeating the same request may succeed.
func IsRetryable(err error) bool {
	var se *ServerError
	var te *TimeoutError
	var ne *NetworkError
	switch {
	case errors.As(err, &te), errors.As(err, &ne):
		return true
	case errors.As(err, &se):
		return se.StatusCode >= 500 || se.StatusCode == 429
	}
	return false
}
