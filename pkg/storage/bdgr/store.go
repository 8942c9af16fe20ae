// Package bdgr provides a storage.Store backed by an embedded badger key-value database.
package bdgr

import (
	"bytes"
	"context"
	"io"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/oneconcern/dirmanifest/pkg/errors"
	"github.com/oneconcern/dirmanifest/pkg/storage"
	"github.com/oneconcern/dirmanifest/pkg/storage/status"
	"go.uber.org/zap"
)

var _ storage.Store = &Store{}

func badgerRewriteError(key string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return status.ErrNotExists.Wrapf("%q", key)
	case errors.Is(err, badger.ErrEmptyKey):
		return status.ErrInvalidResource.Wrap(err)
	default:
		return status.ErrStorageAPI.Wrap(err)
	}
}

// Store objects in a badger database
type Store struct {
	db       *badger.DB
	dir      string
	inMemory bool
	l        *zap.Logger
	owned    bool
	close    sync.Once
}

// Open a badger database in some directory, and use it as a store.
//
// The store owns the database: closing the store closes the database.
func Open(dir string, opts ...Option) (*Store, error) {
	s := newStore(opts...)
	s.dir = dir

	bopts := badger.DefaultOptions(dir).WithLogger(zapLogger{l: s.l.Sugar()})
	if s.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true).WithLogger(zapLogger{l: s.l.Sugar()})
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	s.db = db
	s.owned = true
	return s, nil
}

// New store on top of an already opened database
func New(db *badger.DB, opts ...Option) *Store {
	s := newStore(opts...)
	s.db = db
	return s
}

func newStore(opts ...Option) *Store {
	s := &Store{l: zap.NewNop()}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

// Close the store, and the underlying database if it was opened by the store
func (s *Store) Close() error {
	var err error
	s.close.Do(func() {
		if s.owned && s.db != nil {
			err = s.db.Close()
		}
	})
	return err
}

// Has an object
func (s *Store) Has(_ context.Context, key string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, badgerRewriteError(key, err)
	}
	return true, nil
}

// Get an object. The value is copied out of the transaction.
func (s *Store) Get(_ context.Context, key string) (io.ReadCloser, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, badgerRewriteError(key, err)
	}
	return io.NopCloser(bytes.NewReader(value)), nil
}

// Put an object. With exclusive set, the existence check and the write happen in the same transaction.
func (s *Store) Put(_ context.Context, key string, rdr io.Reader, exclusive bool) error {
	value, err := io.ReadAll(rdr)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if exclusive {
			_, err := txn.Get([]byte(key))
			if err == nil {
				return status.ErrExists.Wrapf("%q", key)
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return txn.Set([]byte(key), value)
	})
	if errors.Is(err, status.ErrExists) {
		return err
	}
	if errors.Is(err, badger.ErrConflict) && exclusive {
		// a concurrent transaction wrote the same key
		return status.ErrExists.Wrap(err)
	}
	return badgerRewriteError(key, err)
}

// Delete an object
func (s *Store) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	return badgerRewriteError(key, err)
}

// Keys lists all objects, in ascending order
func (s *Store) Keys(_ context.Context) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := txn.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, string(iter.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, badgerRewriteError("", err)
	}
	return keys, nil
}

// Clear all objects
func (s *Store) Clear(_ context.Context) error {
	return badgerRewriteError("", s.db.DropAll())
}

func (s *Store) String() string {
	if s.inMemory {
		return "badger@memory"
	}
	if s.dir == "" {
		return "badger"
	}
	return "badger@" + s.dir
}
