package shardmap

import (
	"bytes"
	"sort"

	"github.com/oneconcern/dirmanifest/pkg/cafs"
)

// Value is the constraint on values held by a map
type Value[R any] interface {
	// Weight is the cost of holding this value inline in a node
	Weight() int

	// Rollup summarizes this value
	Rollup() R
}

// Rollup is the constraint on summaries of values. Merge must be associative
// and commutative, and the zero value must be its identity.
type Rollup[R any] interface {
	Merge(R) R
}

// NoRollup is a rollup which summarizes nothing
type NoRollup struct{}

// Merge two empty summaries
func (NoRollup) Merge(NoRollup) NoRollup { return NoRollup{} }

// Item is a key and its value
type Item[V any] struct {
	Key   []byte
	Value V
}

// ChildRef references a child node from a sharded node
type ChildRef[R any] struct {
	// Byte following the parent prefix for all keys of this child
	Byte byte

	// ID of the child node
	ID cafs.Key

	// Weight is the total weight of all values in the child subtree
	Weight uint64

	// Size is the number of values in the child subtree
	Size uint64

	// Rollup summarizes all values in the child subtree
	Rollup R
}

// Node of a sharded map. Nodes are immutable.
type Node[V Value[R], R Rollup[R]] struct {
	sharded  bool
	items    []Item[V]
	prefix   []byte
	value    *V
	children []ChildRef[R]
}

// Empty returns the canonical node of an empty map: a direct node without items
func Empty[V Value[R], R Rollup[R]]() *Node[V, R] {
	return &Node[V, R]{}
}

func newDirect[V Value[R], R Rollup[R]](items []Item[V]) *Node[V, R] {
	if len(items) == 0 {
		items = nil
	}
	return &Node[V, R]{items: items}
}

func newSharded[V Value[R], R Rollup[R]](prefix []byte, value *V, children []ChildRef[R]) *Node[V, R] {
	if len(prefix) == 0 {
		prefix = nil
	}
	return &Node[V, R]{sharded: true, prefix: prefix, value: value, children: children}
}

// IsSharded tells if this node is split into children
func (n *Node[V, R]) IsSharded() bool {
	return n.sharded
}

// IsEmpty tells if this node holds no value at all
func (n *Node[V, R]) IsEmpty() bool {
	return !n.sharded && len(n.items) == 0
}

// Items held inline by a direct node
func (n *Node[V, R]) Items() []Item[V] {
	return n.items
}

// Prefix shared by all keys of a sharded node
func (n *Node[V, R]) Prefix() []byte {
	return n.prefix
}

// Value stored at exactly the prefix of a sharded node
func (n *Node[V, R]) Value() (V, bool) {
	if n.value == nil {
		var zero V
		return zero, false
	}
	return *n.value, true
}

// Children of a sharded node
func (n *Node[V, R]) Children() []ChildRef[R] {
	return n.children
}

// Weight is the total weight of all values in this map
func (n *Node[V, R]) Weight() uint64 {
	var w uint64
	for _, it := range n.items {
		w += uint64(it.Value.Weight())
	}
	if n.value != nil {
		w += uint64((*n.value).Weight())
	}
	for _, c := range n.children {
		w += c.Weight
	}
	return w
}

// Len is the number of values in this map
func (n *Node[V, R]) Len() uint64 {
	size := uint64(len(n.items))
	if n.value != nil {
		size++
	}
	for _, c := range n.children {
		size += c.Size
	}
	return size
}

// Rollup summarizes all values in this map
func (n *Node[V, R]) Rollup() R {
	var r R
	for _, it := range n.items {
		r = r.Merge(it.Value.Rollup())
	}
	if n.value != nil {
		r = r.Merge((*n.value).Rollup())
	}
	for _, c := range n.children {
		r = r.Merge(c.Rollup)
	}
	return r
}

// child finds the child reference for some byte
func (n *Node[V, R]) child(b byte) (ChildRef[R], bool) {
	idx := sort.Search(len(n.children), func(i int) bool { return n.children[i].Byte >= b })
	if idx < len(n.children) && n.children[idx].Byte == b {
		return n.children[idx], true
	}
	return ChildRef[R]{}, false
}

// lowerBound finds the first item with a key not less than key
func (n *Node[V, R]) lowerBound(key []byte) int {
	return sort.Search(len(n.items), func(i int) bool { return bytes.Compare(n.items[i].Key, key) >= 0 })
}

func concat(parts ...[]byte) []byte {
	size := 0
	for _, p := range parts {
		size += len(p)
	}
	out := make([]byte, 0, size)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
