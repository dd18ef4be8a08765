package order

import "cmp"

// isNaN reports whether x is a floating-point NaN. Only NaN is unequal to itself.
func isNaN[K cmp.Ordered](x K) bool {
	return x != x
}

// CompareKeys compares two keys under cfg, ignoring positions.
func CompareKeys[K cmp.Ordered](a, b K, cfg Config) int {
	an, bn := isNaN(a), isNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		if cfg.Nulls == NullsFirst {
			return -1
		}
		return 1
	case bn:
		if cfg.Nulls == NullsFirst {
			return 1
		}
		return -1
	}

	c := cmp.Compare(a, b)
	if cfg.Direction == Descending {
		return -c
	}
	return c
}

// Less is the total order on positions used by ranking: keys first, then the
// tie rule on positions.
type Less[K cmp.Ordered] struct {
	keys []K
	cfg  Config
}

// NewLess creates the position order for keys under cfg.
func NewLess[K cmp.Ordered](keys []K, cfg Config) Less[K] {
	return Less[K]{keys: keys, cfg: cfg}
}

// Before reports whether position a is ordered before position b.
func (l Less[K]) Before(a, b int) bool {
	if c := CompareKeys(l.keys[a], l.keys[b], l.cfg); c != 0 {
		return c < 0
	}
	if l.cfg.Ties == TiesReverse {
		return a > b
	}
	return a < b
}
