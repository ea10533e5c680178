package life

import (
	"github.com/pkg/errors"
)

// Error kinds. Callers classify failures with errors.Is; the wrapped
// message carries the offending values.
var (
	// ErrValidation marks bad constructor or setter arguments.
	ErrValidation = errors.New("validation error")
	// ErrOutOfBounds marks coordinate access outside the grid extent.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrIllegalState marks an operation that is not permitted in the
	// engine's current run state.
	ErrIllegalState = errors.New("illegal operation")
)

func validationErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValidation, format, args...)
}

func boundsErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrOutOfBounds, format, args...)
}

func stateErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrIllegalState, format, args...)
}
