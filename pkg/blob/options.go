package blob

import (
	"github.com/oneconcern/dirmanifest/pkg/errors"
	"github.com/oneconcern/dirmanifest/pkg/storage"
	"github.com/oneconcern/dirmanifest/pkg/storage/status"
	"go.uber.org/zap"
)

// Option for a blob store
type Option func(*Store)

// Prefix sets the namespace of a blob store, e.g. "nodes/"
func Prefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" && prefix[len(prefix)-1] != '/' {
			prefix += "/"
		}
		s.prefix = prefix
	}
}

// Mirror duplicates all writes to another store. Failures to write to a
// tolerant mirror are ignored.
func Mirror(mirror storage.Store, tolerateFailure bool) Option {
	return func(s *Store) {
		s.mirrors = append(s.mirrors, storage.MultiStoreUnit{
			Store:           mirror,
			TolerateFailure: tolerateFailure,
			IgnoreExists:    true,
		})
	}
}

// Logger for the blob store
func Logger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.l = l
		}
	}
}

func isExists(err error) bool {
	return errors.Is(err, status.ErrExists)
}
