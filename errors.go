package colsort

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/colsort/column"
	"github.com/hupe1980/colsort/topk"
)

var (
	// ErrInvalidArgument is the kind of every caller-input error. It is the
	// same sentinel as column.ErrInvalidArgument.
	ErrInvalidArgument = column.ErrInvalidArgument

	// ErrInvalidKeep is returned for a keep policy other than "first" or "last".
	ErrInvalidKeep = topk.ErrInvalidKeep

	// ErrNegativeK is returned when k < 0.
	ErrNegativeK = topk.ErrNegativeK
)

// ErrInvalidDirection indicates a sort direction other than Ascending or Descending.
//
// It matches ErrInvalidArgument via errors.Is.
type ErrInvalidDirection struct {
	Direction Direction
}

func (e *ErrInvalidDirection) Error() string {
	return fmt.Sprintf("invalid argument: unknown sort direction %s", e.Direction)
}

func (e *ErrInvalidDirection) Unwrap() error { return ErrInvalidArgument }

// ErrOperation annotates an error with the engine operation that produced it.
//
// The original error can be accessed via errors.Unwrap.
type ErrOperation struct {
	Op    string
	cause error
}

func (e *ErrOperation) Error() string {
	return fmt.Sprintf("colsort: %s: %v", e.Op, e.cause)
}

func (e *ErrOperation) Unwrap() error { return e.cause }

func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	// Cancellation is reported unchanged so callers can compare with ==.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var eo *ErrOperation
	if errors.As(err, &eo) {
		return err
	}
	return &ErrOperation{Op: op, cause: err}
}

func validateDirection(dir Direction) error {
	if !dir.Valid() {
		return &ErrInvalidDirection{Direction: dir}
	}
	return nil
}
