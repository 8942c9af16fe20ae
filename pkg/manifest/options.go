package manifest

import (
	"github.com/oneconcern/dirmanifest/pkg/shardmap"
	"github.com/oneconcern/dirmanifest/pkg/storage"
	"go.uber.org/zap"
)

// Option for a manifest store
type Option func(*options)

type mirror struct {
	store    storage.Store
	tolerate bool
}

type options struct {
	limit       int
	concurrency int
	verify      bool
	mirrors     []mirror
	l           *zap.Logger
}

func defaultOptions() options {
	return options{
		limit:       WeightLimit,
		concurrency: shardmap.DefaultConcurrency,
		l:           zap.NewNop(),
	}
}

// MaxWeight sets the maximum number of entries held by a single node
func MaxWeight(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.limit = limit
		}
	}
}

// Concurrency sets the number of nodes built in parallel
func Concurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// VerifyHash checks the identifier of every loaded manifest and node
func VerifyHash(enabled bool) Option {
	return func(o *options) {
		o.verify = enabled
	}
}

// Mirror duplicates all writes to another storage backend
func Mirror(store storage.Store, tolerateFailure bool) Option {
	return func(o *options) {
		o.mirrors = append(o.mirrors, mirror{store: store, tolerate: tolerateFailure})
	}
}

// Logger for the manifest store
func Logger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.l = l
		}
	}
}
