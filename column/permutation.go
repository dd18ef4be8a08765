package column

// Permutation maps output positions to source positions: result[j] = source[perm[j]].
//
// Rankings are bijections on [0, n). Top-k selections are prefixes of a ranking
// and therefore injective but shorter than n.
type Permutation []int

// Identity returns the permutation 0..n-1.
func Identity(n int) Permutation {
	return Permutation(RangeIndex(n))
}

// Validate reports whether p is a bijection on [0, n).
func (p Permutation) Validate(n int) error {
	if len(p) != n {
		return &ErrLengthMismatch{Expected: n, Actual: len(p)}
	}
	return p.validateInjective(n)
}

// ValidateSelection reports whether p holds distinct positions in [0, n).
func (p Permutation) ValidateSelection(n int) error {
	if len(p) > n {
		return invalidArgument("selection of %d positions exceeds length %d", len(p), n)
	}
	return p.validateInjective(n)
}

func (p Permutation) validateInjective(n int) error {
	seen := make([]bool, n)
	for j, pos := range p {
		if pos < 0 || pos >= n {
			return invalidArgument("position %d at %d out of range [0, %d)", pos, j, n)
		}
		if seen[pos] {
			return invalidArgument("duplicate position %d at %d", pos, j)
		}
		seen[pos] = true
	}
	return nil
}

// Reverse returns p in reverse order.
func (p Permutation) Reverse() Permutation {
	out := make(Permutation, len(p))
	for j, pos := range p {
		out[len(p)-1-j] = pos
	}
	return out
}

// Inverse returns q with q[p[j]] = j. p must be a bijection.
func (p Permutation) Inverse() Permutation {
	out := make(Permutation, len(p))
	for j, pos := range p {
		out[pos] = j
	}
	return out
}

// Compose returns r with r[j] = p[q[j]]: applying q to the result of p.
func (p Permutation) Compose(q Permutation) Permutation {
	out := make(Permutation, len(q))
	for j, pos := range q {
		out[j] = p[pos]
	}
	return out
}
