package testutil

import (
	"cmp"
	"math"
	"math/rand"
	"sort"
	"sync"
)

// Number is the set of numeric column types generated by this package.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float64 in a loop).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// Uniform returns n values scale*U[0,1) converted to T. Integer types truncate,
// which yields many duplicates for small scales.
func Uniform[T Number](r *RNG, n int, scale float64) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, n)
	for i := range out {
		out[i] = T(scale * r.rand.Float64())
	}
	return out
}

// Ints returns n integers drawn uniformly from [0, distinct).
func (r *RNG) Ints(n, distinct int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, n)
	for i := range out {
		out[i] = r.rand.Intn(distinct)
	}
	return out
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// ZipfInts returns n Zipf-distributed values in [0, distinct): a few values
// repeat very often, producing large tie groups.
func (r *RNG) ZipfInts(n, distinct int, s float64) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, n)
	for i := range out {
		out[i] = r.zipfLocked(distinct, s)
	}
	return out
}

// Shuffled returns the labels 0..n-1 in random order (unique, unsorted index).
func (r *RNG) Shuffled(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// StableArgsort is the reference ordering: a stable sort of positions by value.
// Descending sorts by reversed comparison and keeps ties in input order.
func StableArgsort[T cmp.Ordered](values []T, descending bool) []int {
	perm := make([]int, len(values))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		c := cmp.Compare(values[perm[i]], values[perm[j]])
		if descending {
			return c > 0
		}
		return c < 0
	})
	return perm
}

// Negate returns -v for every element.
func Negate[T ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64](values []T) []T {
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = -v
	}
	return out
}

// Gather returns values[perm[j]] for every j.
func Gather[T any](values []T, perm []int) []T {
	out := make([]T, len(perm))
	for j, p := range perm {
		out[j] = values[p]
	}
	return out
}
