package blobstore

import (
	"context"
	"errors"
	"path"
)

// CachingStore serves reads of immutable blobs from a local cache store,
// copying each blob from the remote store on first access.
//
// Blobs for which mutable reports true (by default any blob named CURRENT)
// always bypass the cache. Writes and deletes go to the remote store and
// evict the cached copy.
type CachingStore struct {
	remote  BlobStore
	cache   BlobStore
	mutable func(name string) bool
}

// NewCachingStore creates a CachingStore. mutable may be nil.
func NewCachingStore(remote, cache BlobStore, mutable func(name string) bool) *CachingStore {
	if mutable == nil {
		mutable = func(name string) bool { return path.Base(name) == "CURRENT" }
	}
	return &CachingStore{remote: remote, cache: cache, mutable: mutable}
}

// Open returns the cached copy of name, filling the cache on a miss.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if s.mutable(name) {
		return s.remote.Open(ctx, name)
	}

	b, err := s.cache.Open(ctx, name)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	data, err := Get(ctx, s.remote, name)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, name, data); err != nil {
		return nil, err
	}
	return s.cache.Open(ctx, name)
}

// Create writes through to the remote store.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	if err := s.cache.Delete(ctx, name); err != nil {
		return nil, err
	}
	return s.remote.Create(ctx, name)
}

// Put writes through to the remote store.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.cache.Delete(ctx, name); err != nil {
		return err
	}
	return s.remote.Put(ctx, name, data)
}

// PutIfNotExists writes through to the remote store if it supports
// create-only writes.
func (s *CachingStore) PutIfNotExists(ctx context.Context, name string, data []byte) error {
	if err := s.cache.Delete(ctx, name); err != nil {
		return err
	}
	return PutIfNotExists(ctx, s.remote, name, data)
}

// Delete removes name from both stores.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	if err := s.cache.Delete(ctx, name); err != nil {
		return err
	}
	return s.remote.Delete(ctx, name)
}

// List lists the remote store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.remote.List(ctx, prefix)
}
