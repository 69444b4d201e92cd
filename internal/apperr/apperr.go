// Package apperr holds the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
)

// Validation reports rejected input. The reason is shown to the caller as is.
func Validation(format string, args ...any) error {
	return &reasonError{kind: ErrValidation, reason: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &reasonError{kind: ErrNotFound, reason: fmt.Sprintf(format, args...)}
}

// Storage wraps a persistence failure. The message keeps the cause verbatim
// and errors.Is matches both ErrStorage and the cause.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *storageError
	if errors.As(err, &se) {
		return err
	}
	return &storageError{op: op, err: err}
}

// Reason returns the human-readable part of a taxonomy error, falling back
// to err.Error().
func Reason(err error) string {
	var re *reasonError
	if errors.As(err, &re) {
		return re.reason
	}
	return err.Error()
}

type reasonError struct {
	kind   error
	reason string
}

func (e *reasonError) Error() string { return e.kind.Error() + ": " + e.reason }
func (e *reasonError) Unwrap() error { return e.kind }

type storageError struct {
	op  string
	err error
}

func (e *storageError) Error() string   { return e.op + ": " + e.err.Error() }
func (e *storageError) Unwrap() []error { return []error{ErrStorage, e.err} }
