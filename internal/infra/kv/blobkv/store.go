// Package blobkv adapts a blob.Store to the persist.KV port so the state
// document can live on the local filesystem, in S3, or in memory.
package blobkv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"sprintpulse/internal/blob"
	"sprintpulse/internal/persist"
)

const contentType = "application/json"

// Store implements persist.KV on top of a blob store. Keys are optionally
// placed under a prefix inside the bucket or directory.
type Store struct {
	blobs  blob.Store
	prefix string
}

var _ persist.KV = (*Store)(nil)

// New wraps blobs. prefix may be empty.
func New(blobs blob.Store, prefix string) *Store {
	return &Store{blobs: blobs, prefix: prefix}
}

func (s *Store) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return path.Join(s.prefix, k)
}

// Get reads the blob at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	_, rc, err := s.blobs.Get(ctx, s.key(key))
	if errors.Is(err, blob.ErrNotFound) {
		return nil, persist.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}
	return b, nil
}

// Put overwrites the blob at key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.blobs.Put(ctx, s.key(key), bytes.NewReader(value), blob.PutOptions{ContentType: contentType, Replace: true})
	return err
}

// Delete removes the blob at key if present.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.blobs.Delete(ctx, s.key(key))
	return err
}

// Close is a no-op; blob stores hold no exclusive resources.
func (s *Store) Close() error { return nil }

// Driver reports the underlying blob driver.
func (s *Store) Driver() blob.Driver { return s.blobs.Driver() }
