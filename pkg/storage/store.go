// Copyright © 2018 One Concern

package storage

import (
	"context"
	"io"
)

// Put modes
const (
	// OverWrite replaces any existing object under the same key
	OverWrite = false

	// NoOverWrite fails with status.ErrExists if an object already exists under the same key
	NoOverWrite = true
)

// Store implementations know how to write objects to a K/V backend.
//
// Typically this is something file system-like. Examples are S3, local FS, an embedded KV store.
// Implementations of this interface are assumed to be fairly simple.
//
// Implementations return the sentinel errors from the status package:
// Get on a missing key fails with status.ErrNotExists, and an exclusive Put on an
// existing key fails with status.ErrExists.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader, bool) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
	Clear(context.Context) error
}

// ReadAll fetches an object entirely in memory
func ReadAll(ctx context.Context, store Store, key string) ([]byte, error) {
	reader, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
