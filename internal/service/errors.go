package service

import (
	"errors"
	"fmt"
	"log"
)

// ErrValidation marks input rejected before any I/O. Use errors.Is.
var ErrValidation = errors.New("validation failed")

func validationErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// TransportError wraps a failed call to a backend (document store, mirror,
// object storage) with the operation that issued it.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// transportError logs and wraps err. It returns nil for a nil err.
func transportError(op string, err error) error {
	if err == nil {
		return nil
	}
	log.Printf("ERROR: %s failed: %v", op, err)
	return &TransportError{Op: op, Err: err}
}

// IsTransport reports whether err came from a backend failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
