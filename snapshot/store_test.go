package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colsort/blobstore"
	"github.com/hupe1980/colsort/column"
)

// staleListStore hides every blob from List, as an eventually consistent
// listing right after another writer's commit would.
type staleListStore struct {
	*blobstore.MemoryStore
}

func (staleListStore) List(context.Context, string) ([]string, error) {
	return nil, nil
}

func stores(t *testing.T) map[string]blobstore.BlobStore {
	return map[string]blobstore.BlobStore{
		"local":   blobstore.NewLocalStore(t.TempDir()),
		"memory":  blobstore.NewMemoryStore(),
		"caching": blobstore.NewCachingStore(blobstore.NewMemoryStore(), blobstore.NewMemoryStore(), nil),
	}
}

func TestSaveLoad(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tbl := newTable(t, 500)

			require.NoError(t, Save(ctx, store, "exports/prices.snap", tbl, WithCompression(CompressionLZ4)))

			got, err := Load[float64, int](ctx, store, "exports/prices.snap")
			require.NoError(t, err)
			assertTablesEqual(t, tbl, got)

			_, err = Load[float64, int](ctx, store, "exports/missing.snap")
			require.ErrorIs(t, err, blobstore.ErrNotFound)
		})
	}
}

func TestLoad_TooSmall(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "tiny", []byte("abc")))

	_, err := Load[float64, int](ctx, store, "tiny")
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestCommit(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, _, err := LoadCurrent[float64, int](ctx, store, "prices")
			require.ErrorIs(t, err, ErrNotFound)

			var tables []*column.Table[float64, int]
			for i := 1; i <= 3; i++ {
				tbl := newTable(t, 10*i)
				tables = append(tables, tbl)

				version, err := Commit(ctx, store, "prices", tbl)
				require.NoError(t, err)
				assert.Equal(t, uint64(i), version)
			}

			versions, err := Versions(ctx, store, "prices")
			require.NoError(t, err)
			assert.Equal(t, []uint64{1, 2, 3}, versions)

			got, version, err := LoadCurrent[float64, int](ctx, store, "prices")
			require.NoError(t, err)
			assert.Equal(t, uint64(3), version)
			assertTablesEqual(t, tables[2], got)

			old, err := LoadVersion[float64, int](ctx, store, "prices", 1)
			require.NoError(t, err)
			assertTablesEqual(t, tables[0], old)

			_, err = LoadVersion[float64, int](ctx, store, "prices", 9)
			require.ErrorIs(t, err, ErrNotFound)

			pointer, err := blobstore.Get(ctx, store, CurrentPath("prices"))
			require.NoError(t, err)
			assert.Equal(t, "tables/prices/00000000000000000003.snap", string(pointer))
		})
	}
}

func TestCommit_TablesAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := Commit(ctx, store, "a", newTable(t, 5))
	require.NoError(t, err)
	_, err = Commit(ctx, store, "a", newTable(t, 6))
	require.NoError(t, err)
	// "ab" shares a name prefix with "a".
	v, err := Commit(ctx, store, "ab", newTable(t, 7))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	versions, err := Versions(ctx, store, "a")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, versions)
}

func TestCommit_SkipsClaimedVersions(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	store := staleListStore{MemoryStore: mem}

	require.NoError(t, mem.Put(ctx, VersionPath("prices", 1), []byte("another writer")))
	require.NoError(t, mem.Put(ctx, VersionPath("prices", 2), []byte("another writer")))

	tbl := newTable(t, 8)
	version, err := Commit(ctx, store, "prices", tbl)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), version)

	other, err := blobstore.Get(ctx, mem, VersionPath("prices", 1))
	require.NoError(t, err)
	assert.Equal(t, "another writer", string(other))

	got, _, err := LoadCurrent[float64, int](ctx, store, "prices")
	require.NoError(t, err)
	assertTablesEqual(t, tbl, got)
}

// racingStore runs race once, right after the first version claim lands.
type racingStore struct {
	*blobstore.MemoryStore
	race func()
}

func (s *racingStore) PutIfNotExists(ctx context.Context, name string, data []byte) error {
	err := s.MemoryStore.PutIfNotExists(ctx, name, data)
	if race := s.race; race != nil {
		s.race = nil
		race()
	}
	return err
}

func TestCommit_SlowCommitterKeepsNewerCurrent(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	fast := newTable(t, 7)

	store := &racingStore{MemoryStore: mem}
	store.race = func() {
		version, err := Commit(ctx, mem, "prices", fast)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), version)
	}

	version, err := Commit(ctx, store, "prices", newTable(t, 3))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)

	got, current, err := LoadCurrent[float64, int](ctx, mem, "prices")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), current)
	assertTablesEqual(t, fast, got)

	_, err = LoadVersion[float64, int](ctx, mem, "prices", 1)
	require.NoError(t, err)
}

func TestCommit_RepairsCorruptCurrent(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, CurrentPath("prices"), []byte("garbage")))

	version, err := Commit(ctx, store, "prices", newTable(t, 2))
	require.NoError(t, err)

	current, _, err := Current(ctx, store, "prices")
	require.NoError(t, err)
	assert.Equal(t, version, current)
}

func TestCommit_CachingStoreClaimsVersions(t *testing.T) {
	ctx := context.Background()
	remote := blobstore.NewMemoryStore()
	store := blobstore.NewCachingStore(staleListStore{MemoryStore: remote}, blobstore.NewMemoryStore(), nil)

	first := newTable(t, 4)
	_, err := Commit(ctx, store, "prices", first)
	require.NoError(t, err)
	version, err := Commit(ctx, store, "prices", newTable(t, 5))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), version)

	got, err := LoadVersion[float64, int](ctx, remote, "prices", 1)
	require.NoError(t, err)
	assertTablesEqual(t, first, got)
}

func TestCommit_GivesUp(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	store := staleListStore{MemoryStore: mem}

	for v := uint64(1); v <= maxCommitAttempts; v++ {
		require.NoError(t, mem.Put(ctx, VersionPath("prices", v), []byte("x")))
	}

	_, err := Commit(ctx, store, "prices", newTable(t, 4))
	require.ErrorIs(t, err, ErrCommitConflict)
}

func TestCommit_InvalidName(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		_, err := Commit(ctx, store, name, newTable(t, 1))
		require.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestCurrent_BadPointer(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	require.NoError(t, store.Put(ctx, CurrentPath("prices"), []byte("tables/other/00000000000000000001.snap")))
	_, _, err := Current(ctx, store, "prices")
	require.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, store.Put(ctx, CurrentPath("prices"), []byte("garbage")))
	_, _, err = Current(ctx, store, "prices")
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	for i := 0; i < 5; i++ {
		_, err := Commit(ctx, store, "prices", newTable(t, 3))
		require.NoError(t, err)
	}

	deleted, err := Prune(ctx, store, "prices", 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, deleted)

	versions, err := Versions(ctx, store, "prices")
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 5}, versions)

	// CURRENT survives keep=0.
	deleted, err = Prune(ctx, store, "prices", 0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, deleted)

	_, version, err := LoadCurrent[float64, int](ctx, store, "prices")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), version)

	_, err = Prune(ctx, store, "prices", -1)
	require.Error(t, err)
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name string
		want uint64
		ok   bool
	}{
		{"tables/a/00000000000000000007.snap", 7, true},
		{"00000000000000000012.snap", 12, true},
		{"tables/a/CURRENT", 0, false},
		{"tables/a/0.snap", 0, false},
		{"tables/a/x.snap", 0, false},
	}
	for _, tt := range tests {
		v, ok := parseVersion(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, v, tt.name)
	}
}
