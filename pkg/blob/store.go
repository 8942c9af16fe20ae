// Package blob stores immutable blobs under their content identifier.
//
// A blob store is a namespace (a key prefix) over a storage.Store backend.
// Writes are idempotent: putting a blob which already exists is a no-op,
// since the same identifier always designates the same bytes.
package blob

import (
	"bytes"
	"context"
	"strings"

	"github.com/oneconcern/dirmanifest/pkg/cafs"
	"github.com/oneconcern/dirmanifest/pkg/storage"
	"go.uber.org/zap"
)

// Blob is an immutable byte payload with its content identifier
type Blob struct {
	ID   cafs.Key
	Data []byte
}

// Store for blobs
type Store struct {
	backend storage.Store
	prefix  string
	mirrors []storage.MultiStoreUnit
	l       *zap.Logger
}

// New blob store over some storage backend
func New(backend storage.Store, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		l:       zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

// Path of a blob in the backend: the prefix, then a 2-character fan-out directory
func (s *Store) Path(id cafs.Key) string {
	h := id.String()
	return s.prefix + h[:2] + "/" + h
}

// Has a blob
func (s *Store) Has(ctx context.Context, id cafs.Key) (bool, error) {
	return s.backend.Has(ctx, s.Path(id))
}

// Get the content of a blob.
//
// A blob missing from the backend is read from the mirrors, in order, and
// copied back to the backend. A blob missing everywhere is reported with the
// backend error, i.e. status.ErrNotExists.
func (s *Store) Get(ctx context.Context, id cafs.Key) ([]byte, error) {
	s.l.Debug("Start blob Get", zap.Stringer("id", id))
	data, err := storage.ReadAll(ctx, s.backend, s.Path(id))
	if err != nil {
		if !storage.IsNotExists(err) || len(s.mirrors) == 0 {
			return nil, err
		}
		return s.repair(ctx, id, err)
	}
	s.l.Debug("End blob Get", zap.Stringer("id", id), zap.Int("size", len(data)))
	return data, nil
}

func (s *Store) repair(ctx context.Context, id cafs.Key, notExists error) ([]byte, error) {
	for _, mirror := range s.mirrors {
		data, err := storage.ReadTee(ctx, mirror.Store, s.backend, s.Path(id))
		switch {
		case err == nil:
			s.l.Info("restored blob from mirror", zap.Stringer("id", id), zap.Stringer("mirror", mirror.Store))
			return data, nil
		case storage.IsNotExists(err):
			continue
		case mirror.TolerateFailure:
			s.l.Warn("cannot read blob from mirror", zap.Stringer("id", id), zap.Stringer("mirror", mirror.Store), zap.Error(err))
			continue
		default:
			return nil, err
		}
	}
	return nil, notExists
}

// Put the content of a blob. The caller is responsible for id being the content identifier of data.
func (s *Store) Put(ctx context.Context, id cafs.Key, data []byte) error {
	s.l.Debug("Start blob Put", zap.Stringer("id", id), zap.Int("size", len(data)))

	units := make([]storage.MultiStoreUnit, 0, 1+len(s.mirrors))
	units = append(units, storage.MultiStoreUnit{Store: s.backend, IgnoreExists: true})
	units = append(units, s.mirrors...)

	if len(units) == 1 {
		err := s.backend.Put(ctx, s.Path(id), bytes.NewReader(data), storage.NoOverWrite)
		if err != nil && !isExists(err) {
			return err
		}
		return nil
	}
	return storage.MultiPut(ctx, units, s.Path(id), data, storage.NoOverWrite)
}

// PutBlob stores a blob
func (s *Store) PutBlob(ctx context.Context, b Blob) error {
	return s.Put(ctx, b.ID, b.Data)
}

// Keys lists the identifiers of all blobs in this namespace
func (s *Store) Keys(ctx context.Context) ([]cafs.Key, error) {
	paths, err := s.backend.Keys(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]cafs.Key, 0, len(paths))
	for _, p := range paths {
		if !strings.HasPrefix(p, s.prefix) {
			continue
		}
		rel := p[len(s.prefix):]
		idx := strings.IndexByte(rel, '/')
		if idx < 0 {
			continue
		}
		k, err := cafs.KeyFromString(rel[idx+1:])
		if err != nil {
			// not a blob
			continue
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *Store) String() string {
	return s.backend.String() + "/" + s.prefix
}
