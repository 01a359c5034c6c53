package utils

import (
	"fmt"
	"net/http"
)

// StatusError carries an HTTP status the desktop service answered with.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.Code, e.Message)
}

// New returns a StatusError. An empty message falls back to the status text.
func New(code int, message string) error {
	if message == "" {
		message = http.StatusText(code)
	}
	return &StatusError{
		Code:    code,
		Message: message,
	}
}

// ValidationError reports a flight plan or option that cannot be used.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Missing required field: " + e.Field
}

// Missing is the ValidationError for an absent required field.
func Missing(field string) error {
	return &ValidationError{Field: field}
}
