package topk

import (
	"fmt"

	"github.com/hupe1980/colsort/column"
	"github.com/hupe1980/colsort/internal/order"
)

var (
	// ErrInvalidKeep is returned for a keep policy other than "first" or "last".
	ErrInvalidKeep = fmt.Errorf(`%w: keep must be either "first", "last"`, column.ErrInvalidArgument)

	// ErrNegativeK is returned when k < 0.
	ErrNegativeK = fmt.Errorf("%w: k must be non-negative", column.ErrInvalidArgument)

	// ErrInvalidExtreme is returned for an extreme other than "largest" or "smallest".
	ErrInvalidExtreme = fmt.Errorf(`%w: extreme must be either "largest", "smallest"`, column.ErrInvalidArgument)
)

// Keep selects which members of a tie group at the cutoff survive.
type Keep uint8

const (
	// KeepFirst keeps the earliest input positions.
	KeepFirst Keep = iota
	// KeepLast keeps the latest input positions.
	KeepLast
)

// ParseKeep parses "first" or "last".
func ParseKeep(s string) (Keep, error) {
	switch s {
	case "first":
		return KeepFirst, nil
	case "last":
		return KeepLast, nil
	default:
		return 0, fmt.Errorf("%w (got %q)", ErrInvalidKeep, s)
	}
}

func (k Keep) String() string {
	switch k {
	case KeepFirst:
		return "first"
	case KeepLast:
		return "last"
	default:
		return fmt.Sprintf("Keep(%d)", uint8(k))
	}
}

// Extreme selects the end of the ordering k is taken from.
type Extreme uint8

const (
	// Largest takes the k largest values.
	Largest Extreme = iota
	// Smallest takes the k smallest values.
	Smallest
)

// ParseExtreme parses "largest" or "smallest".
func ParseExtreme(s string) (Extreme, error) {
	switch s {
	case "largest":
		return Largest, nil
	case "smallest":
		return Smallest, nil
	default:
		return 0, fmt.Errorf("%w (got %q)", ErrInvalidExtreme, s)
	}
}

func (e Extreme) String() string {
	switch e {
	case Largest:
		return "largest"
	case Smallest:
		return "smallest"
	default:
		return fmt.Sprintf("Extreme(%d)", uint8(e))
	}
}

// Options configures a selection.
type Options struct {
	K       int
	Extreme Extreme
	Keep    Keep
}

// Validate checks every option eagerly.
func (o Options) Validate() error {
	if o.K < 0 {
		return fmt.Errorf("%w (got %d)", ErrNegativeK, o.K)
	}
	if o.Keep != KeepFirst && o.Keep != KeepLast {
		return ErrInvalidKeep
	}
	if o.Extreme != Largest && o.Extreme != Smallest {
		return ErrInvalidExtreme
	}
	return nil
}

// Config returns the ranking the selection truncates.
func (o Options) Config(nulls order.Nulls) order.Config {
	cfg := order.Config{Direction: order.Ascending, Nulls: nulls}
	if o.Extreme == Largest {
		cfg.Direction = order.Descending
	}
	if o.Keep == KeepLast {
		cfg.Ties = order.TiesReverse
	}
	return cfg
}
