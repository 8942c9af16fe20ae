// Package compressed provides a storage.Store decorator which compresses objects at rest.
//
// Objects written by this store carry a small header telling how they are
// compressed, so the compression algorithm may be changed on a live store:
// objects are always read back with the algorithm they were written with.
package compressed

import (
	"bytes"
	"context"
	"io"

	"github.com/oneconcern/dirmanifest/pkg/errors"
	"github.com/oneconcern/dirmanifest/pkg/storage"
)

var (
	// ErrCorrupted indicates a stored object with an invalid compression header or payload
	ErrCorrupted = errors.New("corrupted compressed object")

	// ErrUnknownAlgorithm indicates an unsupported compression algorithm
	ErrUnknownAlgorithm = errors.New("unknown compression algorithm")
)

var _ storage.Store = &Store{}

// Store compresses objects before handing them to a backend store
type Store struct {
	storage.Store
	algo Algorithm
}

// New compressed store with some algorithm
func New(backend storage.Store, algo Algorithm) *Store {
	return &Store{Store: backend, algo: algo}
}

// Get an object and decompress it
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := storage.ReadAll(ctx, s.Store, key)
	if err != nil {
		return nil, err
	}
	data, err := decode(object)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Put an object, compressed
func (s *Store) Put(ctx context.Context, key string, rdr io.Reader, exclusive bool) error {
	data, err := io.ReadAll(rdr)
	if err != nil {
		return err
	}
	object, err := encode(data, s.algo)
	if err != nil {
		return err
	}
	return s.Store.Put(ctx, key, bytes.NewReader(object), exclusive)
}

func (s *Store) String() string {
	return s.Store.String() + "+" + s.algo.String()
}
