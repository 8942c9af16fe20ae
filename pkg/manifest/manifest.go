package manifest

import (
	"bytes"
	"context"

	"github.com/oneconcern/dirmanifest/pkg/blob"
	"github.com/oneconcern/dirmanifest/pkg/cafs"
	"github.com/oneconcern/dirmanifest/pkg/model"
	"github.com/oneconcern/dirmanifest/pkg/shardmap"
)

// Node of the sharded map holding the entries of a directory
type Node = shardmap.Node[model.Entry, model.Rollup]

// Loader fetches the nodes of manifests
type Loader = shardmap.Loader[model.Entry, model.Rollup]

// NamedEntry is a child of a directory
type NamedEntry struct {
	Name  model.PathElement
	Entry model.Entry
}

// Manifest lists the children of a directory.
//
// A Manifest is an immutable value. The zero value is the empty manifest.
type Manifest struct {
	root *Node
}

var emptyRoot = shardmap.Empty[model.Entry, model.Rollup]()

// Empty manifest, shared by all empty directories
func Empty() Manifest {
	return Manifest{root: emptyRoot}
}

// FromRoot wraps the root node of a sharded map into a manifest
func FromRoot(root *Node) Manifest {
	if root == nil {
		return Empty()
	}
	return Manifest{root: root}
}

// Root node of this manifest
func (m Manifest) Root() *Node {
	if m.root == nil {
		return emptyRoot
	}
	return m.root
}

// IsEmpty tells if this manifest has no entry
func (m Manifest) IsEmpty() bool {
	return m.Root().IsEmpty()
}

// Len is the number of entries in this manifest
func (m Manifest) Len() uint64 {
	return m.Root().Len()
}

// Rollup summarizes the entries of this manifest, without fetching anything
func (m Manifest) Rollup() model.Rollup {
	return m.Root().Rollup()
}

// Lookup the entry for a name. A missing name yields false, not an error.
func (m Manifest) Lookup(ctx context.Context, loader Loader, name model.PathElement) (model.Entry, bool, error) {
	if name.IsZero() {
		return model.Entry{}, false, model.ErrInvalidPathElement.Wrapf("empty name")
	}
	return m.Root().Lookup(ctx, loader, name.Bytes())
}

// Entries enumerates all entries of this manifest, ordered by name
func (m Manifest) Entries(ctx context.Context, loader Loader) *Iterator {
	return &Iterator{it: m.Root().Entries(ctx, loader)}
}

// PrefixEntries enumerates the entries with a name starting with prefix, ordered by name.
// Only the nodes which may hold such names are loaded.
func (m Manifest) PrefixEntries(ctx context.Context, loader Loader, prefix string) *Iterator {
	return &Iterator{it: m.Root().PrefixEntries(ctx, loader, []byte(prefix))}
}

// Encode this manifest in its canonical form: the encoding of its root node
func (m Manifest) Encode() ([]byte, error) {
	return m.Root().Encode()
}

// Blob holding this manifest
func (m Manifest) Blob(hasher cafs.Hasher) (blob.Blob, error) {
	data, err := m.Encode()
	if err != nil {
		return blob.Blob{}, err
	}
	return blob.Blob{ID: hasher.Sum(data), Data: data}, nil
}

// Equal tells if two manifests have the same content
func (m Manifest) Equal(o Manifest) bool {
	a, err := m.Encode()
	if err != nil {
		return false
	}
	b, err := o.Encode()
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// Decode a manifest
func Decode(data []byte) (Manifest, error) {
	root, err := shardmap.Decode[model.Entry, model.Rollup](data)
	if err != nil {
		return Manifest{}, model.ErrDecode.Wrap(err)
	}
	return FromRoot(root), nil
}

// Iterator enumerates the entries of a manifest. A raw key which is not a
// valid name stops the enumeration with model.ErrInvalidPathElement.
type Iterator struct {
	it      *shardmap.Iterator[model.Entry, model.Rollup]
	current NamedEntry
	err     error
}

// Next advances to the next entry
func (it *Iterator) Next() bool {
	if it.err != nil || !it.it.Next() {
		return false
	}
	item := it.it.Item()
	name, err := model.PathElementFromBytes(item.Key)
	if err != nil {
		it.err = err
		it.current = NamedEntry{}
		return false
	}
	it.current = NamedEntry{Name: name, Entry: item.Value}
	return true
}

// Entry returns the current entry
func (it *Iterator) Entry() NamedEntry {
	return it.current
}

// Err returns the error which stopped the enumeration, if any
func (it *Iterator) Err() error {
	if it.err != nil {
		return it.err
	}
	return it.it.Err()
}

// Collect all remaining entries
func (it *Iterator) Collect() ([]NamedEntry, error) {
	var entries []NamedEntry
	for it.Next() {
		entries = append(entries, it.Entry())
	}
	return entries, it.Err()
}
