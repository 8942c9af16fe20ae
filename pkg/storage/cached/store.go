// Package cached provides a storage.Store decorator which keeps recently read objects in memory.
//
// Objects are assumed to be immutable once written, which holds for content-addressed
// blobs: a cached object is never invalidated by a write through another store.
package cached

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/oneconcern/dirmanifest/pkg/storage"
	"go.uber.org/zap"
)

const (
	// DefaultMaxBytes is the default memory budget of a cache
	DefaultMaxBytes = 64 << 20

	// maxEntries bounds the number of objects independently from their size
	maxEntries = 1 << 20
)

var _ storage.Store = &Store{}

// Option for a cached store
type Option func(*Store)

// MaxBytes sets the memory budget of the cache
func MaxBytes(size int64) Option {
	return func(s *Store) {
		if size > 0 {
			s.maxBytes = size
		}
	}
}

// Logger for the cached store
func Logger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.l = l
		}
	}
}

// Store caches objects read from or written to a backend store
type Store struct {
	storage.Store

	mu       sync.Mutex
	lru      *simplelru.LRU
	size     int64
	maxBytes int64
	l        *zap.Logger

	hits, misses uint64
}

// New cached store on top of a backend
func New(backend storage.Store, opts ...Option) *Store {
	s := &Store{
		Store:    backend,
		maxBytes: DefaultMaxBytes,
		l:        zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	lru, err := simplelru.NewLRU(maxEntries, s.onEvict)
	if err != nil {
		// only fails on a non-positive size
		panic(err)
	}
	s.lru = lru
	return s
}

// onEvict is called with the lock held
func (s *Store) onEvict(_ interface{}, value interface{}) {
	s.size -= int64(len(value.([]byte)))
}

func (s *Store) lookup(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.lru.Get(key)
	if !ok {
		s.misses++
		return nil, false
	}
	s.hits++
	return v.([]byte), true
}

func (s *Store) add(key string, data []byte) {
	if int64(len(data)) > s.maxBytes {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lru.Contains(key) {
		s.lru.Remove(key)
	}
	s.lru.Add(key, data)
	s.size += int64(len(data))
	for s.size > s.maxBytes {
		if _, _, ok := s.lru.RemoveOldest(); !ok {
			break
		}
	}
}

func (s *Store) remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Remove(key)
}

// Has an object, either in cache or in the backend
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	ok := s.lru.Contains(key)
	s.mu.Unlock()
	if ok {
		return true, nil
	}
	return s.Store.Has(ctx, key)
}

// Get an object, from the cache whenever possible
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if data, ok := s.lookup(key); ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	data, err := storage.ReadAll(ctx, s.Store, key)
	if err != nil {
		return nil, err
	}
	s.add(key, data)
	s.l.Debug("cached object", zap.String("key", key), zap.Int("size", len(data)))
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Put an object in the backend, then in the cache
func (s *Store) Put(ctx context.Context, key string, rdr io.Reader, exclusive bool) error {
	data, err := io.ReadAll(rdr)
	if err != nil {
		return err
	}
	if err = s.Store.Put(ctx, key, bytes.NewReader(data), exclusive); err != nil {
		return err
	}
	s.add(key, data)
	return nil
}

// Delete an object from the backend and from the cache
func (s *Store) Delete(ctx context.Context, key string) error {
	s.remove(key)
	return s.Store.Delete(ctx, key)
}

// Clear the backend and the cache
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.lru.Purge()
	s.mu.Unlock()
	return s.Store.Clear(ctx)
}

// Stats reports the number of cached objects, their total size, and the number of cache hits and misses
func (s *Store) Stats() (objects int, size int64, hits, misses uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len(), s.size, s.hits, s.misses
}

func (s *Store) String() string {
	return s.Store.String() + "+cache"
}
