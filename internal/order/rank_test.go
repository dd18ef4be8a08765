package order

import (
	"context"
	"math"
	"math/rand"
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colsort/column"
	"github.com/hupe1980/colsort/resource"
)

// referenceRank ranks with the standard library's stable sort.
func referenceRank[K int | int32 | int64 | float32 | float64](keys []K, cfg Config) []int {
	perm := make([]int, len(keys))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		return CompareKeys(keys[perm[i]], keys[perm[j]], cfg) < 0
	})
	if cfg.Ties == TiesReverse {
		// Reverse each run of equal keys.
		for lo := 0; lo < len(perm); {
			hi := lo + 1
			for hi < len(perm) && CompareKeys(keys[perm[lo]], keys[perm[hi]], cfg) == 0 {
				hi++
			}
			slices.Reverse(perm[lo:hi])
			lo = hi
		}
	}
	return perm
}

func TestRank_Scenarios(t *testing.T) {
	t.Run("AscendingTies", func(t *testing.T) {
		perm := Rank([]int{5, 3, 3, 1}, Config{Direction: Ascending})
		assert.Equal(t, column.Permutation{3, 1, 2, 0}, perm)
	})

	t.Run("DescendingKeepsTieOrder", func(t *testing.T) {
		perm := Rank([]int{1, 3, 3, 5}, Config{Direction: Descending})
		assert.Equal(t, column.Permutation{3, 1, 2, 0}, perm)
	})

	t.Run("TiesReverse", func(t *testing.T) {
		keys := []int{0, 1, 1, 2, 2, 2, 3, 3}
		perm := Rank(keys, Config{Direction: Descending, Ties: TiesReverse})
		assert.Equal(t, column.Permutation{7, 6, 5, 4, 3, 2, 1, 0}, perm)

		perm = Rank(keys, Config{Direction: Ascending, Ties: TiesReverse})
		assert.Equal(t, column.Permutation{0, 2, 1, 5, 4, 3, 7, 6}, perm)
	})

	t.Run("Empty", func(t *testing.T) {
		perm := Rank([]float64{}, Config{})
		assert.Empty(t, perm)
		require.NoError(t, perm.Validate(0))
	})

	t.Run("Single", func(t *testing.T) {
		assert.Equal(t, column.Permutation{0}, Rank([]float64{42}, Config{Direction: Descending}))
	})

	t.Run("Strings", func(t *testing.T) {
		perm := Rank([]string{"b", "a", "c", "a"}, Config{})
		assert.Equal(t, column.Permutation{1, 3, 0, 2}, perm)
	})
}

func TestRank_DescendingEqualsNegatedAscending(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	for _, n := range []int{2, 257, 1000} {
		keys := make([]int64, n)
		neg := make([]int64, n)
		for i := range keys {
			keys[i] = int64(100 * rng.Float64())
			neg[i] = -keys[i]
		}
		assert.Equal(t,
			Rank(neg, Config{Direction: Ascending}),
			Rank(keys, Config{Direction: Descending}),
			"n=%d", n)
	}
}

func TestRank_NaN(t *testing.T) {
	nan := math.NaN()
	keys := []float64{2, nan, 1, nan, 3}

	t.Run("LastAscending", func(t *testing.T) {
		assert.Equal(t, column.Permutation{2, 0, 4, 1, 3}, Rank(keys, Config{}))
	})

	t.Run("LastDescending", func(t *testing.T) {
		assert.Equal(t, column.Permutation{4, 0, 2, 1, 3}, Rank(keys, Config{Direction: Descending}))
	})

	t.Run("FirstAscending", func(t *testing.T) {
		assert.Equal(t, column.Permutation{1, 3, 2, 0, 4}, Rank(keys, Config{Nulls: NullsFirst}))
	})

	t.Run("FirstTiesReverse", func(t *testing.T) {
		cfg := Config{Nulls: NullsFirst, Ties: TiesReverse}
		assert.Equal(t, column.Permutation{3, 1, 2, 0, 4}, Rank(keys, cfg))
	})
}

func TestRank_MatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	configs := []Config{
		{Direction: Ascending},
		{Direction: Descending},
		{Direction: Ascending, Ties: TiesReverse},
		{Direction: Descending, Ties: TiesReverse},
	}

	for _, n := range []int{0, 1, 2, 31, 32, 33, 64, 257, 1000, 4099} {
		// Few distinct keys so every run holds many ties.
		keys := make([]int32, n)
		for i := range keys {
			keys[i] = int32(rng.Intn(7))
		}
		for _, cfg := range configs {
			perm := Rank(keys, cfg)
			require.NoError(t, perm.Validate(n))
			assert.Equal(t, referenceRank(keys, cfg), []int(perm), "n=%d cfg=%+v", n, cfg)
		}
	}
}

func TestRank_Stability(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	keys := make([]float32, 5000)
	for i := range keys {
		keys[i] = float32(rng.Intn(50))
	}

	for _, dir := range []Direction{Ascending, Descending} {
		perm := Rank(keys, Config{Direction: dir})
		for j := 1; j < len(perm); j++ {
			a, b := perm[j-1], perm[j]
			c := CompareKeys(keys[a], keys[b], Config{Direction: dir})
			require.LessOrEqual(t, c, 0)
			if c == 0 {
				require.Less(t, a, b, "tie order broken at %d (%s)", j, dir)
			}
		}
	}
}

func TestRankParallel(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	keys := make([]float64, 10_007)
	for i := range keys {
		keys[i] = float64(rng.Intn(100))
	}

	for _, workers := range []int{2, 3, 4, 7} {
		for _, cfg := range []Config{{}, {Direction: Descending}, {Ties: TiesReverse}} {
			want := Rank(keys, cfg)
			got, err := RankParallel(context.Background(), keys, cfg, Parallel{
				Workers:   workers,
				Threshold: 1000,
			})
			require.NoError(t, err)
			assert.Equal(t, want, got, "workers=%d cfg=%+v", workers, cfg)
		}
	}
}

func TestRankParallel_Controller(t *testing.T) {
	keys := make([]int, 4096)
	for i := range keys {
		keys[i] = (i * 7919) % 13
	}
	want := Rank(keys, Config{})

	t.Run("SharedWorkerSlots", func(t *testing.T) {
		ctrl := resource.NewController(resource.Config{MaxWorkers: 2})
		got, err := RankParallel(context.Background(), keys, Config{}, Parallel{
			Workers: 8, Threshold: 64, Controller: ctrl,
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, int64(0), ctrl.MemoryUsage())
	})

	t.Run("MemoryRefusedFallsBack", func(t *testing.T) {
		ctrl := resource.NewController(resource.Config{MaxWorkers: 4, MemoryLimitBytes: 16})
		got, err := RankParallel(context.Background(), keys, Config{}, Parallel{
			Workers: 4, Threshold: 64, Controller: ctrl,
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := RankParallel(ctx, keys, Config{}, Parallel{Workers: 4, Threshold: 64})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("BelowThreshold", func(t *testing.T) {
		got, err := RankParallel(context.Background(), keys, Config{}, Parallel{Workers: 4})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
