package manifest

import (
	"context"

	"github.com/oneconcern/dirmanifest/pkg/blob"
	"github.com/oneconcern/dirmanifest/pkg/cafs"
	"github.com/oneconcern/dirmanifest/pkg/model"
	"github.com/oneconcern/dirmanifest/pkg/shardmap"
	"github.com/oneconcern/dirmanifest/pkg/storage"
	"go.uber.org/zap"
)

// WeightLimit is the default maximum number of entries held by a single node
const WeightLimit = model.WeightLimit

// Personalizations of the hashers, one per kind of blob
const (
	NodePerson     = "dirmanifest.node"
	ManifestPerson = "dirmanifest.dir"
	ContentPerson  = "dirmanifest.file"
)

// Namespaces of the blob stores in the storage backend
const (
	NodesPrefix     = "nodes"
	ManifestsPrefix = "manifests"
	ContentsPrefix  = "contents"
)

var (
	nodeHasher     = cafs.NewHasher(NodePerson)
	manifestHasher = cafs.NewHasher(ManifestPerson)
	contentHasher  = cafs.NewHasher(ContentPerson)
)

// ID of a manifest: the hash of its canonical encoding
func ID(m Manifest) (cafs.Key, error) {
	data, err := m.Encode()
	if err != nil {
		return cafs.Key{}, err
	}
	return manifestHasher.Sum(data), nil
}

// ContentID of some file content
func ContentID(data []byte) cafs.Key {
	return contentHasher.Sum(data)
}

// Store persists manifests, the nodes of large manifests and file contents,
// each kind in its own namespace of a storage backend.
type Store struct {
	options
	backend   storage.Store
	nodes     *shardmap.Store[model.Entry, model.Rollup]
	manifests *blob.Store
	contents  *blob.Store
}

// NewStore creates a manifest store over some storage backend
func NewStore(backend storage.Store, opts ...Option) *Store {
	s := &Store{
		options: defaultOptions(),
		backend: backend,
	}
	for _, apply := range opts {
		apply(&s.options)
	}

	s.manifests = s.blobStore(ManifestsPrefix)
	s.contents = s.blobStore(ContentsPrefix)
	s.nodes = shardmap.NewStore[model.Entry, model.Rollup](
		s.blobStore(NodesPrefix),
		shardmap.WeightLimit(s.limit),
		shardmap.Concurrency(s.concurrency),
		shardmap.VerifyHash(s.verify),
		shardmap.Hasher(nodeHasher),
		shardmap.Logger(s.l),
	)
	return s
}

func (s *Store) blobStore(prefix string) *blob.Store {
	opts := []blob.Option{blob.Prefix(prefix), blob.Logger(s.l)}
	for _, m := range s.mirrors {
		opts = append(opts, blob.Mirror(m.store, m.tolerate))
	}
	return blob.New(s.backend, opts...)
}

func (s *Store) String() string {
	return s.backend.String()
}

// Load a node of a manifest
func (s *Store) Load(ctx context.Context, id cafs.Key) (*Node, error) {
	return s.nodes.Load(ctx, id)
}

// Save a manifest and return its identifier. The nodes of a sharded
// manifest have been saved when it was built.
func (s *Store) Save(ctx context.Context, m Manifest) (cafs.Key, error) {
	b, err := m.Blob(manifestHasher)
	if err != nil {
		return cafs.Key{}, err
	}
	s.l.Debug("Start manifest Put", zap.Stringer("id", b.ID), zap.Uint64("entries", m.Len()))
	if err := s.manifests.PutBlob(ctx, b); err != nil {
		return cafs.Key{}, err
	}
	return b.ID, nil
}

// Get a manifest by identifier.
//
// Storage errors are returned unchanged, e.g. status.ErrNotExists for an
// unknown manifest, whereas corrupted manifests yield model.ErrDecode.
func (s *Store) Get(ctx context.Context, id cafs.Key) (Manifest, error) {
	if err := ctx.Err(); err != nil {
		return Manifest{}, err
	}
	s.l.Debug("Start manifest Get", zap.Stringer("id", id))
	data, err := s.manifests.Get(ctx, id)
	if err != nil {
		return Manifest{}, err
	}
	if s.verify {
		if actual := manifestHasher.Sum(data); actual != id {
			return Manifest{}, model.ErrDecode.Wrap(shardmap.ErrHashMismatch.Wrapf("expected %v, got %v", id, actual))
		}
	}
	return Decode(data)
}

// Has a manifest
func (s *Store) Has(ctx context.Context, id cafs.Key) (bool, error) {
	return s.manifests.Has(ctx, id)
}

// PutContent stores the content of a file and returns its identifier
func (s *Store) PutContent(ctx context.Context, data []byte) (cafs.Key, error) {
	id := ContentID(data)
	if err := s.contents.Put(ctx, id, data); err != nil {
		return cafs.Key{}, err
	}
	return id, nil
}

// GetContent fetches the content of a file
func (s *Store) GetContent(ctx context.Context, id cafs.Key) ([]byte, error) {
	return s.contents.Get(ctx, id)
}

// FromEntries builds a manifest. Names must be distinct.
func (s *Store) FromEntries(ctx context.Context, entries []NamedEntry) (Manifest, error) {
	items, err := toItems(entries)
	if err != nil {
		return Manifest{}, err
	}
	root, err := s.nodes.Build(ctx, items)
	if err != nil {
		return Manifest{}, err
	}
	return FromRoot(root), nil
}

// Update a manifest: removes are applied first, then adds, which insert or
// replace entries. Unchanged nodes are shared with the previous version.
func (s *Store) Update(ctx context.Context, m Manifest, adds []NamedEntry, removes []model.PathElement) (Manifest, error) {
	items, err := toItems(adds)
	if err != nil {
		return Manifest{}, err
	}
	keys := make([][]byte, len(removes))
	for i, name := range removes {
		keys[i] = name.Bytes()
	}
	root, err := s.nodes.Update(ctx, m.Root(), items, keys)
	if err != nil {
		return Manifest{}, err
	}
	return FromRoot(root), nil
}

// Shape describes how a manifest is sharded. All its nodes are loaded.
func (s *Store) Shape(ctx context.Context, m Manifest) (shardmap.Shape, error) {
	return m.Root().Shape(ctx, s)
}

func toItems(entries []NamedEntry) ([]shardmap.Item[model.Entry], error) {
	items := make([]shardmap.Item[model.Entry], len(entries))
	for i, e := range entries {
		if e.Name.IsZero() {
			return nil, model.ErrInvalidPathElement.Wrapf("empty name at position %d", i)
		}
		if e.Entry.Kind() == model.KindInvalid {
			return nil, model.ErrInvalidEntry.Wrapf("for %q", e.Name)
		}
		items[i] = shardmap.Item[model.Entry]{Key: e.Name.Bytes(), Value: e.Entry}
	}
	return items, nil
}
