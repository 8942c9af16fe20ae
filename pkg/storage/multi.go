// Copyright © 2018 One Concern

package storage

import (
	"bytes"
	"context"

	"golang.org/x/sync/errgroup"
)

// ReadTee reads an object from a source store and copies it to a destination
// store under the same key. An object already present in the destination
// counts as copied, since objects are immutable.
func ReadTee(ctx context.Context, source Store, destination Store, key string) ([]byte, error) {
	object, err := ReadAll(ctx, source, key)
	if err != nil {
		return nil, err
	}
	err = destination.Put(ctx, key, bytes.NewReader(object), NoOverWrite)
	if err != nil && !isExists(err) {
		return nil, err
	}
	return object, nil
}

// MultiStoreUnit is used to specify multiple operations, some of which are tolerated to fail
type MultiStoreUnit struct {
	// Store is the backend to be accessed
	Store Store

	// TolerateFailure to false breaks multi-store operations whenever an error is encountered.
	TolerateFailure bool

	// IgnoreExists treats status.ErrExists as a success, for idempotent writes of immutable objects
	IgnoreExists bool
}

// MultiPut duplicates write operations to an array of stores, under the same name.
//
// It returns the first error from a store which does not tolerate failures.
func MultiPut(ctx context.Context, stores []MultiStoreUnit, name string, buffer []byte, exclusive bool) error {
	var wg errgroup.Group

	for _, w := range stores {
		w := w
		wg.Go(func() error {
			err := w.Store.Put(ctx, name, bytes.NewReader(buffer), exclusive)
			if err == nil || w.TolerateFailure {
				return nil
			}
			if w.IgnoreExists && isExists(err) {
				return nil
			}
			return err
		})
	}
	return wg.Wait()
}
