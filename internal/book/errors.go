package book

import "github.com/pkg/errors"

// ErrClosed is returned when a request is submitted after Stop.
var ErrClosed = errors.New("book: closed")

// ValidationError wraps a rejected order with the reason it was rejected.
// It is only ever returned before the actor accepts an order for
// matching; once accepted, an order cannot fail.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "book: invalid order: " + e.Reason
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: errors.Errorf(format, args...).Error()}
}
