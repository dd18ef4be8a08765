package column

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the kind of every caller-input error raised by the
// column model and the engines built on top of it. Use errors.Is to test for it.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrLengthMismatch indicates columns (or values and labels) of different lengths.
//
// It matches ErrInvalidArgument via errors.Is.
type ErrLengthMismatch struct {
	Name     string
	Expected int
	Actual   int
}

func (e *ErrLengthMismatch) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid argument: length mismatch: expected %d, got %d", e.Expected, e.Actual)
	}
	return fmt.Sprintf("invalid argument: column %q length mismatch: expected %d, got %d", e.Name, e.Expected, e.Actual)
}

func (e *ErrLengthMismatch) Unwrap() error { return ErrInvalidArgument }

// ErrUnknownColumn indicates a lookup of a column name the table does not hold.
//
// It matches ErrInvalidArgument via errors.Is.
type ErrUnknownColumn struct {
	Name string
}

func (e *ErrUnknownColumn) Error() string {
	return fmt.Sprintf("invalid argument: unknown column %q", e.Name)
}

func (e *ErrUnknownColumn) Unwrap() error { return ErrInvalidArgument }

// invalidArgument wraps ErrInvalidArgument with a formatted message.
func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
