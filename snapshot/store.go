package snapshot

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/colsort/blobstore"
	"github.com/hupe1980/colsort/column"
)

const (
	// TablesDir is the blob prefix under which committed tables live.
	TablesDir = "tables"
	// CurrentName is the pointer blob naming a table's latest snapshot.
	CurrentName = "CURRENT"
	// Ext is the file extension of snapshot blobs.
	Ext = ".snap"

	maxCommitAttempts = 16
)

// Save writes t to name in store, replacing any existing blob.
func Save[V, I cmp.Ordered](ctx context.Context, store blobstore.BlobStore, name string, t *column.Table[V, I], optFns ...Option) error {
	data, err := Marshal(ctx, t, optFns...)
	if err != nil {
		return err
	}
	if err := store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("snapshot: put %s: %w", name, err)
	}
	return nil
}

// Load reads the snapshot stored at name.
func Load[V, I cmp.Ordered](ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*column.Table[V, I], error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", name, err)
	}
	defer func() { _ = b.Close() }()

	if b.Size() < headerSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrCorrupt, name, b.Size())
	}
	rc, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	return Read[V, I](ctx, rc, optFns...)
}

// VersionPath returns the blob name of a table version.
func VersionPath(table string, version uint64) string {
	return path.Join(TablesDir, table, fmt.Sprintf("%020d%s", version, Ext))
}

// CurrentPath returns the blob name of a table's CURRENT pointer.
func CurrentPath(table string) string {
	return path.Join(TablesDir, table, CurrentName)
}

func tablePrefix(table string) string {
	return TablesDir + "/" + table + "/"
}

func validateTable(table string) error {
	if table == "" || table == "." || table == ".." || strings.ContainsAny(table, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, table)
	}
	return nil
}

// parseVersion extracts the version number from a snapshot blob name.
func parseVersion(name string) (uint64, bool) {
	base := path.Base(name)
	if !strings.HasSuffix(base, Ext) {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimSuffix(base, Ext), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}

// Versions returns the committed versions of table in ascending order.
func Versions(ctx context.Context, store blobstore.BlobStore, table string) ([]uint64, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	names, err := store.List(ctx, tablePrefix(table))
	if err != nil {
		return nil, fmt.Errorf("snapshot: list %s: %w", table, err)
	}

	var versions []uint64
	for _, name := range names {
		if path.Dir(name) != path.Join(TablesDir, table) {
			continue
		}
		if v, ok := parseVersion(name); ok {
			versions = append(versions, v)
		}
	}
	slices.Sort(versions)
	return versions, nil
}

// Commit writes t as the next version of table and points CURRENT at it.
//
// Stores implementing blobstore.ConditionalPutter get create-only version
// blobs, so concurrent committers never overwrite each other's data; the
// loser moves on to the next free version. Other stores fall back to a plain
// Put, where the last writer of a version wins.
//
// CURRENT is left alone when it already names a newer version, so a slow
// committer does not roll it back. The check and the pointer update are not
// atomic unless the store serializes pointer writes (see s3.DDBCommitStore).
func Commit[V, I cmp.Ordered](ctx context.Context, store blobstore.BlobStore, table string, t *column.Table[V, I], optFns ...Option) (uint64, error) {
	if err := validateTable(table); err != nil {
		return 0, err
	}
	data, err := Marshal(ctx, t, optFns...)
	if err != nil {
		return 0, err
	}

	versions, err := Versions(ctx, store, table)
	if err != nil {
		return 0, err
	}
	next := uint64(1)
	if len(versions) > 0 {
		next = versions[len(versions)-1] + 1
	}

	version, err := putVersion(ctx, store, table, next, data)
	if err != nil {
		return 0, err
	}

	current, _, err := Current(ctx, store, table)
	switch {
	case err == nil && current > version:
		return version, nil
	case err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrCorrupt):
		return 0, err
	}

	target := VersionPath(table, version)
	if err := store.Put(ctx, CurrentPath(table), []byte(target)); err != nil {
		return 0, fmt.Errorf("snapshot: update %s: %w", CurrentPath(table), err)
	}
	return version, nil
}

func putVersion(ctx context.Context, store blobstore.BlobStore, table string, next uint64, data []byte) (uint64, error) {
	for range maxCommitAttempts {
		name := VersionPath(table, next)
		err := blobstore.PutIfNotExists(ctx, store, name, data)
		switch {
		case err == nil:
			return next, nil
		case errors.Is(err, errors.ErrUnsupported):
			// No create-only writes: the last writer of a version wins.
			if err := store.Put(ctx, name, data); err != nil {
				return 0, fmt.Errorf("snapshot: put %s: %w", name, err)
			}
			return next, nil
		case !errors.Is(err, blobstore.ErrExists):
			return 0, fmt.Errorf("snapshot: put %s: %w", name, err)
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		next++
	}
	return 0, fmt.Errorf("%w: table %q after %d attempts", ErrCommitConflict, table, maxCommitAttempts)
}

// Current returns the version CURRENT points at.
func Current(ctx context.Context, store blobstore.BlobStore, table string) (uint64, string, error) {
	if err := validateTable(table); err != nil {
		return 0, "", err
	}
	data, err := blobstore.Get(ctx, store, CurrentPath(table))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return 0, "", fmt.Errorf("%w: table %q", ErrNotFound, table)
		}
		return 0, "", fmt.Errorf("snapshot: read %s: %w", CurrentPath(table), err)
	}

	target := string(bytes.TrimSpace(data))
	version, ok := parseVersion(target)
	if !ok || path.Dir(target) != path.Join(TablesDir, table) {
		return 0, "", fmt.Errorf("%w: %s points at %q", ErrCorrupt, CurrentPath(table), target)
	}
	return version, target, nil
}

// LoadCurrent loads the version CURRENT points at.
func LoadCurrent[V, I cmp.Ordered](ctx context.Context, store blobstore.BlobStore, table string, optFns ...Option) (*column.Table[V, I], uint64, error) {
	version, target, err := Current(ctx, store, table)
	if err != nil {
		return nil, 0, err
	}
	t, err := Load[V, I](ctx, store, target, optFns...)
	if err != nil {
		return nil, 0, err
	}
	return t, version, nil
}

// LoadVersion loads a specific committed version.
func LoadVersion[V, I cmp.Ordered](ctx context.Context, store blobstore.BlobStore, table string, version uint64, optFns ...Option) (*column.Table[V, I], error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	t, err := Load[V, I](ctx, store, VersionPath(table, version), optFns...)
	if errors.Is(err, blobstore.ErrNotFound) {
		return nil, fmt.Errorf("%w: table %q version %d", ErrNotFound, table, version)
	}
	return t, err
}

// Prune deletes all but the newest keep versions of table. The version
// CURRENT points at is always kept. It returns the deleted versions.
func Prune(ctx context.Context, store blobstore.BlobStore, table string, keep int) ([]uint64, error) {
	if keep < 0 {
		return nil, fmt.Errorf("snapshot: keep must be >= 0, got %d", keep)
	}
	versions, err := Versions(ctx, store, table)
	if err != nil {
		return nil, err
	}

	current, _, err := Current(ctx, store, table)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var deleted []uint64
	for _, v := range versions[:max(len(versions)-keep, 0)] {
		if v == current {
			continue
		}
		if err := store.Delete(ctx, VersionPath(table, v)); err != nil {
			return deleted, fmt.Errorf("snapshot: delete version %d: %w", v, err)
		}
		deleted = append(deleted, v)
	}
	return deleted, nil
}
