package shardmap

import (
	"context"

	"github.com/oneconcern/dirmanifest/pkg/cafs"
	"github.com/oneconcern/dirmanifest/pkg/codec"
	"go.uber.org/zap"
)

// Blobs is the content-addressed blob store holding encoded nodes
type Blobs interface {
	Get(context.Context, cafs.Key) ([]byte, error)
	Put(context.Context, cafs.Key, []byte) error
}

// Loader fetches nodes by identifier
type Loader[V Value[R], R Rollup[R]] interface {
	Load(context.Context, cafs.Key) (*Node[V, R], error)
}

// Store persists and loads the nodes of sharded maps
type Store[V Value[R], R Rollup[R]] struct {
	options
	blobs Blobs
}

// NewStore creates a node store on top of a blob store
func NewStore[V Value[R], R Rollup[R]](blobs Blobs, opts ...Option) *Store[V, R] {
	s := &Store[V, R]{
		options: defaultOptions(),
		blobs:   blobs,
	}
	for _, apply := range opts {
		apply(&s.options)
	}
	return s
}

// WeightLimit of direct nodes built by this store
func (s *Store[V, R]) WeightLimit() int {
	return s.limit
}

// ID computes the identifier of a node without persisting it
func (s *Store[V, R]) ID(n *Node[V, R]) (cafs.Key, error) {
	return ID(s.hasher, n)
}

// Save a node and return its identifier
func (s *Store[V, R]) Save(ctx context.Context, n *Node[V, R]) (cafs.Key, error) {
	data, err := n.Encode()
	if err != nil {
		return cafs.Key{}, err
	}
	id := s.hasher.Sum(data)
	s.l.Debug("Start node Put", zap.Stringer("id", id), zap.Int("size", len(data)), zap.Bool("sharded", n.sharded))
	if err := s.blobs.Put(ctx, id, data); err != nil {
		return cafs.Key{}, err
	}
	return id, nil
}

// Load a node. Errors from the blob store are returned unchanged, and bytes
// which do not decode into a node yield ErrDecode.
func (s *Store[V, R]) Load(ctx context.Context, id cafs.Key) (*Node[V, R], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.l.Debug("Start node Get", zap.Stringer("id", id))
	data, err := s.blobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.verify {
		if actual := s.hasher.Sum(data); actual != id {
			return nil, ErrDecode.Wrap(ErrHashMismatch.Wrapf("expected %v, got %v", id, actual))
		}
		var probe nodeWire[V, R]
		if err := codec.UnmarshalCanonical(data, &probe); err != nil {
			return nil, ErrDecode.Wrap(err)
		}
	}

	return Decode[V, R](data)
}

// Build a map from a set of items. Children are persisted; the returned root
// node is not, and may be saved with Save.
func (s *Store[V, R]) Build(ctx context.Context, items []Item[V]) (*Node[V, R], error) {
	elems, err := itemElements[V, R](items)
	if err != nil {
		return nil, err
	}
	return s.newBuilder().build(ctx, elems, true)
}

// Update a map: removes are applied first, then adds, which insert or replace
// values. Only the nodes on the paths of updated keys are loaded; all other
// children of the previous version are reused. The result is identical to
// building the final set of items from scratch.
func (s *Store[V, R]) Update(ctx context.Context, root *Node[V, R], adds []Item[V], removes [][]byte) (*Node[V, R], error) {
	ops, err := newOps(adds, removes)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return root, nil
	}

	b := s.newBuilder()
	elems, err := b.apply(ctx, rootElements(root), ops)
	if err != nil {
		return nil, err
	}
	return b.build(ctx, elems, true)
}

func (s *Store[V, R]) newBuilder() *builder[V, R] {
	return &builder[V, R]{store: s, limit: uint64(s.limit), concurrency: s.concurrency}
}
