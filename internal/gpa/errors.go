package gpa

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is reported by the backend as code 404. It never leaves
	// this package: callers see an empty catalog or an out-of-stock price.
	ErrNotFound = errors.New("resource not found")

	ErrBackendFailure     = errors.New("gpa backend failure")
	ErrIntegrityViolation = errors.New("integrity violation")
	ErrMalformedInput     = errors.New("malformed input")
)

// BackendError carries the provider's code and message
type BackendError struct {
	Code    int
	Status  string
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code == 0 {
		return fmt.Sprintf("gpa backend failure: %s", msg)
	}
	return fmt.Sprintf("gpa backend failure (code=%d, status=%q): %s", e.Code, e.Status, msg)
}

func (e *BackendError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBackendFailure}
	}
	return []error{ErrBackendFailure, e.Err}
}
