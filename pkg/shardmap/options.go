package shardmap

import (
	"github.com/oneconcern/dirmanifest/pkg/cafs"
	"go.uber.org/zap"
)

const (
	// DefaultWeightLimit is the maximum weight of a direct node, unless configured otherwise
	DefaultWeightLimit = 2000

	// DefaultConcurrency is the number of children built in parallel below the root
	DefaultConcurrency = 8

	// DefaultPerson is the blake2b personalization used to identify nodes
	DefaultPerson = "shardmap.node"
)

// Option for a node store
type Option func(*options)

type options struct {
	limit       int
	verify      bool
	concurrency int
	hasher      cafs.Hasher
	l           *zap.Logger
}

func defaultOptions() options {
	return options{
		limit:       DefaultWeightLimit,
		concurrency: DefaultConcurrency,
		hasher:      cafs.NewHasher(DefaultPerson),
		l:           zap.NewNop(),
	}
}

// WeightLimit sets the maximum total weight of the values held by a direct node
func WeightLimit(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.limit = limit
		}
	}
}

// VerifyHash checks that loaded nodes match their identifier, and that they are canonically encoded
func VerifyHash(enabled bool) Option {
	return func(o *options) {
		o.verify = enabled
	}
}

// Concurrency sets the number of children of the root built in parallel
func Concurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// Hasher sets the hasher computing node identifiers
func Hasher(h cafs.Hasher) Option {
	return func(o *options) {
		o.hasher = h
	}
}

// Logger for the node store
func Logger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.l = l
		}
	}
}
