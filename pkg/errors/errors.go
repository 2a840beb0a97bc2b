package errors

import "fmt"

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeCredentials ErrorType = "credentials"
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeHTTP        ErrorType = "http"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a portal error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New creates a typed error without an HTTP status code
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Newf creates a typed error with a formatted message
func Newf(errorType ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: errorType, Message: fmt.Sprintf(format, args...)}
}

// IsFatal reports whether an error type aborts the whole run.
// Per-statement HTTP failures are skippable; everything else terminates
// the run before any further portal calls are made.
func IsFatal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeHTTP:
		return false
	case ErrorTypeCredentials, ErrorTypeNetwork, ErrorTypeAuth, ErrorTypeParsing:
		return true
	default:
		return true
	}
}
