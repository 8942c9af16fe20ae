package shardmap

import (
	"bytes"
	"context"
)

// Iterator enumerates the items of a map in ascending key order.
//
// Children are loaded only when the enumeration reaches them, so that a
// consumer which stops early never fetches the rest of the map. The iterator
// is not safe for concurrent use; independent iterators may run concurrently.
//
//	it := root.Entries(ctx, store)
//	for it.Next() {
//		item := it.Item()
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type Iterator[V Value[R], R Rollup[R]] struct {
	ctx    context.Context
	loader Loader[V, R]
	root   *Node[V, R]
	prefix []byte

	started bool
	stack   []frame[V, R]
	item    Item[V]
	err     error
}

type frame[V Value[R], R Rollup[R]] struct {
	node *Node[V, R]
	base []byte

	// position in items for a direct node. For a sharded node, -1 until the
	// value at the prefix is visited, then the position in children.
	pos int

	// when set, items of a direct node must start with this relative prefix
	filter []byte
}

// Entries enumerates all items of a map
func (n *Node[V, R]) Entries(ctx context.Context, loader Loader[V, R]) *Iterator[V, R] {
	return &Iterator[V, R]{ctx: ctx, loader: loader, root: n}
}

// PrefixEntries enumerates the items of a map with a key starting with prefix.
// Only the nodes which may hold such keys are loaded.
func (n *Node[V, R]) PrefixEntries(ctx context.Context, loader Loader[V, R], prefix []byte) *Iterator[V, R] {
	return &Iterator[V, R]{ctx: ctx, loader: loader, root: n, prefix: append([]byte{}, prefix...)}
}

// Next advances to the next item. It returns false at the end of the
// enumeration or on error, to be checked with Err.
func (it *Iterator[V, R]) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.started {
		it.started = true
		if err := it.seek(); err != nil {
			it.fail(err)
			return false
		}
	}

	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		node := top.node

		if !node.sharded {
			if top.pos < len(node.items) {
				item := node.items[top.pos]
				if top.filter == nil || bytes.HasPrefix(item.Key, top.filter) {
					top.pos++
					it.item = Item[V]{Key: concat(top.base, item.Key), Value: item.Value}
					return true
				}
			}
			it.pop()
			continue
		}

		if top.pos < 0 {
			top.pos = 0
			if node.value != nil {
				it.item = Item[V]{Key: concat(top.base, node.prefix), Value: *node.value}
				return true
			}
		}

		if top.pos < len(node.children) {
			ref := node.children[top.pos]
			top.pos++
			base := concat(top.base, node.prefix, []byte{ref.Byte})

			if err := it.ctx.Err(); err != nil {
				it.fail(err)
				return false
			}
			child, err := it.loader.Load(it.ctx, ref.ID)
			if err != nil {
				it.fail(err)
				return false
			}
			it.push(child, base, nil)
			continue
		}

		it.pop()
	}

	return false
}

// Item returns the current item
func (it *Iterator[V, R]) Item() Item[V] {
	return it.item
}

// Err returns the error which stopped the enumeration, if any
func (it *Iterator[V, R]) Err() error {
	return it.err
}

// Collect all remaining items
func (it *Iterator[V, R]) Collect() ([]Item[V], error) {
	var items []Item[V]
	for it.Next() {
		items = append(items, it.Item())
	}
	return items, it.Err()
}

func (it *Iterator[V, R]) fail(err error) {
	it.err = err
	it.stack = nil
	it.item = Item[V]{}
}

func (it *Iterator[V, R]) pop() {
	it.stack = it.stack[:len(it.stack)-1]
}

func (it *Iterator[V, R]) push(n *Node[V, R], base, filter []byte) {
	f := frame[V, R]{node: n, base: base, filter: filter}
	switch {
	case n.sharded:
		f.pos = -1
	case filter != nil:
		f.pos = n.lowerBound(filter)
	}
	it.stack = append(it.stack, f)
}

// seek descends to the node holding all keys starting with the prefix
func (it *Iterator[V, R]) seek() error {
	if err := it.ctx.Err(); err != nil {
		return err
	}
	if it.root == nil {
		return nil
	}
	if len(it.prefix) == 0 {
		it.push(it.root, nil, nil)
		return nil
	}

	node, base, rest := it.root, []byte{}, it.prefix
	for {
		if !node.sharded {
			it.push(node, base, rest)
			return nil
		}

		if len(rest) <= len(node.prefix) {
			if bytes.HasPrefix(node.prefix, rest) {
				it.push(node, base, nil)
			}
			return nil
		}
		if !bytes.HasPrefix(rest, node.prefix) {
			return nil
		}

		b := rest[len(node.prefix)]
		ref, ok := node.child(b)
		if !ok {
			return nil
		}
		child, err := it.loader.Load(it.ctx, ref.ID)
		if err != nil {
			return err
		}
		base = concat(base, node.prefix, []byte{b})
		node, rest = child, rest[len(node.prefix)+1:]
	}
}
