package manifest

import (
	"context"

	iradix "github.com/hashicorp/go-immutable-radix"
	"github.com/oneconcern/dirmanifest/pkg/model"
)

// Builder stages the entries of a manifest before it is built.
//
// Staged entries are held in an immutable radix tree: Snapshot is cheap, and
// snapshots are not affected by later changes to the builder.
type Builder struct {
	tree *iradix.Tree
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{tree: iradix.New()}
}

// Put stages an entry, replacing any previous entry with the same name
func (b *Builder) Put(name model.PathElement, entry model.Entry) error {
	if name.IsZero() {
		return model.ErrInvalidPathElement.Wrapf("empty name")
	}
	if entry.Kind() == model.KindInvalid {
		return model.ErrInvalidEntry.Wrapf("for %q", name)
	}
	b.tree, _, _ = b.tree.Insert(name.Bytes(), entry)
	return nil
}

// Remove a staged entry, and tell if it was staged
func (b *Builder) Remove(name model.PathElement) bool {
	var removed bool
	b.tree, _, removed = b.tree.Delete(name.Bytes())
	return removed
}

// Get a staged entry
func (b *Builder) Get(name model.PathElement) (model.Entry, bool) {
	v, ok := b.tree.Get(name.Bytes())
	if !ok {
		return model.Entry{}, false
	}
	return v.(model.Entry), true
}

// Len is the number of staged entries
func (b *Builder) Len() int {
	return b.tree.Len()
}

// Snapshot of the staged entries
func (b *Builder) Snapshot() *Builder {
	return &Builder{tree: b.tree}
}

// Entries staged, ordered by name
func (b *Builder) Entries() []NamedEntry {
	entries := make([]NamedEntry, 0, b.tree.Len())
	b.tree.Root().Walk(func(k []byte, v interface{}) bool {
		entries = append(entries, NamedEntry{Name: model.MustPathElement(string(k)), Entry: v.(model.Entry)})
		return false
	})
	return entries
}

// Build the manifest of the staged entries. Its nodes are saved to the
// store, but not the manifest itself.
func (b *Builder) Build(ctx context.Context, s *Store) (Manifest, error) {
	return s.FromEntries(ctx, b.Entries())
}

// Load stages all entries of a manifest
func (b *Builder) Load(ctx context.Context, s *Store, m Manifest) error {
	txn := b.tree.Txn()
	it := m.Entries(ctx, s)
	for it.Next() {
		e := it.Entry()
		txn.Insert(e.Name.Bytes(), e.Entry)
	}
	if err := it.Err(); err != nil {
		return err
	}
	b.tree = txn.Commit()
	return nil
}
