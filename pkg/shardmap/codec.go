package shardmap

import (
	"bytes"

	"github.com/oneconcern/dirmanifest/pkg/cafs"
	"github.com/oneconcern/dirmanifest/pkg/codec"
)

// nodeWire is the persisted form of a node. Direct nodes only set Items,
// so that the empty map encodes as an empty CBOR map.
type nodeWire[V any, R any] struct {
	Sharded  bool           `cbor:"1,keyasint,omitempty"`
	Prefix   []byte         `cbor:"2,keyasint,omitempty"`
	Items    []itemWire[V]  `cbor:"3,keyasint,omitempty"`
	Value    *V             `cbor:"4,keyasint,omitempty"`
	Children []childWire[R] `cbor:"5,keyasint,omitempty"`
}

type itemWire[V any] struct {
	_     struct{} `cbor:",toarray"`
	Key   []byte
	Value V
}

type childWire[R any] struct {
	_      struct{} `cbor:",toarray"`
	Byte   uint8
	ID     cafs.Key
	Weight uint64
	Size   uint64
	Rollup R
}

// Encode a node in its canonical form
func (n *Node[V, R]) Encode() ([]byte, error) {
	w := nodeWire[V, R]{
		Sharded: n.sharded,
		Prefix:  n.prefix,
		Value:   n.value,
	}
	if len(n.items) > 0 {
		w.Items = make([]itemWire[V], len(n.items))
		for i, it := range n.items {
			w.Items[i] = itemWire[V]{Key: it.Key, Value: it.Value}
		}
	}
	if len(n.children) > 0 {
		w.Children = make([]childWire[R], len(n.children))
		for i, c := range n.children {
			w.Children[i] = childWire[R]{Byte: c.Byte, ID: c.ID, Weight: c.Weight, Size: c.Size, Rollup: c.Rollup}
		}
	}
	return codec.Marshal(w)
}

// Decode a node and check its structure
func Decode[V Value[R], R Rollup[R]](data []byte) (*Node[V, R], error) {
	var w nodeWire[V, R]
	if err := codec.Unmarshal(data, &w); err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	if !w.Sharded {
		if len(w.Prefix) > 0 || w.Value != nil || len(w.Children) > 0 {
			return nil, ErrDecode.Wrap(ErrInvalidNode.Wrapf("direct node with sharded fields"))
		}
		var items []Item[V]
		if len(w.Items) > 0 {
			items = make([]Item[V], len(w.Items))
		}
		for i, it := range w.Items {
			if i > 0 && bytes.Compare(w.Items[i-1].Key, it.Key) >= 0 {
				return nil, ErrDecode.Wrap(ErrInvalidNode.Wrapf("item keys are not strictly ascending at position %d", i))
			}
			key := it.Key
			if key == nil {
				key = []byte{}
			}
			items[i] = Item[V]{Key: key, Value: it.Value}
		}
		return newDirect[V, R](items), nil
	}

	if len(w.Items) > 0 {
		return nil, ErrDecode.Wrap(ErrInvalidNode.Wrapf("sharded node with inline items"))
	}
	if len(w.Children) == 0 || (w.Value == nil && len(w.Children) < 2) {
		return nil, ErrDecode.Wrap(ErrInvalidNode.Wrapf("sharded node with %d children", len(w.Children)))
	}
	children := make([]ChildRef[R], len(w.Children))
	for i, c := range w.Children {
		if i > 0 && w.Children[i-1].Byte >= c.Byte {
			return nil, ErrDecode.Wrap(ErrInvalidNode.Wrapf("child bytes are not strictly ascending at position %d", i))
		}
		if c.Size == 0 {
			return nil, ErrDecode.Wrap(ErrInvalidNode.Wrapf("empty child at byte %#x", c.Byte))
		}
		children[i] = ChildRef[R]{Byte: c.Byte, ID: c.ID, Weight: c.Weight, Size: c.Size, Rollup: c.Rollup}
	}
	return newSharded[V, R](w.Prefix, w.Value, children), nil
}

// ID computes the content identifier of a node, without persisting it
func ID[V Value[R], R Rollup[R]](hasher cafs.Hasher, n *Node[V, R]) (cafs.Key, error) {
	data, err := n.Encode()
	if err != nil {
		return cafs.Key{}, err
	}
	return hasher.Sum(data), nil
}
