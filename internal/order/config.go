package order

import "fmt"

// Direction is the primary ordering of keys.
type Direction uint8

const (
	// Ascending orders keys non-decreasing.
	Ascending Direction = iota
	// Descending orders keys non-increasing.
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool { return d == Ascending || d == Descending }

// Ties orders positions whose keys compare equal.
type Ties uint8

const (
	// TiesStable keeps equal keys in ascending input position.
	TiesStable Ties = iota
	// TiesReverse puts equal keys in descending input position.
	TiesReverse
)

// Nulls places NaN keys.
type Nulls uint8

const (
	// NullsLast places NaN keys after all other keys.
	NullsLast Nulls = iota
	// NullsFirst places NaN keys before all other keys.
	NullsFirst
)

func (n Nulls) String() string {
	if n == NullsFirst {
		return "first"
	}
	return "last"
}

// Config selects the ordering.
type Config struct {
	Direction Direction
	Ties      Ties
	Nulls     Nulls
}
