package shardmap

import (
	"bytes"
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// element is either an item or a stored subtree holding all keys starting
// with key. Keys are relative to the node being built. A sorted slice of
// elements never has two elements covering the same key.
type element[V Value[R], R Rollup[R]] struct {
	key   []byte
	value V
	child *ChildRef[R]
}

func (e element[V, R]) isItem() bool {
	return e.child == nil
}

func (e element[V, R]) weight() uint64 {
	if e.child != nil {
		return e.child.Weight
	}
	return uint64(e.value.Weight())
}

func (e element[V, R]) size() uint64 {
	if e.child != nil {
		return e.child.Size
	}
	return 1
}

func itemElements[V Value[R], R Rollup[R]](items []Item[V]) ([]element[V, R], error) {
	elems := make([]element[V, R], len(items))
	for i, it := range items {
		elems[i] = element[V, R]{key: append([]byte{}, it.Key...), value: it.Value}
	}
	sort.SliceStable(elems, func(i, j int) bool { return bytes.Compare(elems[i].key, elems[j].key) < 0 })
	for i := 1; i < len(elems); i++ {
		if bytes.Equal(elems[i-1].key, elems[i].key) {
			return nil, ErrDuplicateKey.Wrapf("%q", elems[i].key)
		}
	}
	return elems, nil
}

// nodeElements lists the elements of a node, with keys prefixed by base
func nodeElements[V Value[R], R Rollup[R]](n *Node[V, R], base []byte) []element[V, R] {
	if !n.sharded {
		elems := make([]element[V, R], len(n.items))
		for i, it := range n.items {
			elems[i] = element[V, R]{key: concat(base, it.Key), value: it.Value}
		}
		return elems
	}

	elems := make([]element[V, R], 0, len(n.children)+1)
	if n.value != nil {
		elems = append(elems, element[V, R]{key: concat(base, n.prefix), value: *n.value})
	}
	for i := range n.children {
		c := n.children[i]
		elems = append(elems, element[V, R]{key: concat(base, n.prefix, []byte{c.Byte}), child: &c})
	}
	return elems
}

func rootElements[V Value[R], R Rollup[R]](root *Node[V, R]) []element[V, R] {
	if root == nil {
		return nil
	}
	return nodeElements(root, nil)
}

type builder[V Value[R], R Rollup[R]] struct {
	store       *Store[V, R]
	limit       uint64
	concurrency int
}

// expand replaces a subtree element by the elements of its root node
func (b *builder[V, R]) expand(ctx context.Context, e element[V, R]) ([]element[V, R], error) {
	n, err := b.store.Load(ctx, e.child.ID)
	if err != nil {
		return nil, err
	}
	return nodeElements(n, e.key), nil
}

// flatten expands all subtrees into items
func (b *builder[V, R]) flatten(ctx context.Context, elems []element[V, R]) ([]Item[V], error) {
	var size uint64
	for _, e := range elems {
		size += e.size()
	}
	items := make([]Item[V], 0, size)

	var walk func([]element[V, R]) error
	walk = func(elems []element[V, R]) error {
		for _, e := range elems {
			if e.isItem() {
				items = append(items, Item[V]{Key: e.key, Value: e.value})
				continue
			}
			expanded, err := b.expand(ctx, e)
			if err != nil {
				return err
			}
			if err := walk(expanded); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(elems); err != nil {
		return nil, err
	}
	return items, nil
}

// build the canonical node for a sorted set of elements. Children are
// persisted; the returned node is not.
func (b *builder[V, R]) build(ctx context.Context, elems []element[V, R], parallel bool) (*Node[V, R], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var weight, size uint64
	for _, e := range elems {
		weight += e.weight()
		size += e.size()
	}

	if weight <= b.limit || size <= 1 {
		items, err := b.flatten(ctx, elems)
		if err != nil {
			return nil, err
		}
		return newDirect[V, R](items), nil
	}

	if len(elems) == 1 {
		// a single subtree: its own prefix may be longer than its key
		expanded, err := b.expand(ctx, elems[0])
		if err != nil {
			return nil, err
		}
		return b.build(ctx, expanded, parallel)
	}

	first, last := elems[0].key, elems[len(elems)-1].key
	prefix := first[:commonPrefixLen(first, last)]

	rest := elems
	var value *V
	if len(first) == len(prefix) {
		// only an item may sit at exactly the common prefix
		v := elems[0].value
		value = &v
		rest = elems[1:]
	}

	groups := groupByByte(rest, len(prefix))
	children := make([]ChildRef[R], len(groups))

	buildChild := func(ctx context.Context, i int) error {
		g := groups[i]
		if len(g.elems) == 1 && !g.elems[0].isItem() && len(g.elems[0].key) == 0 {
			// unchanged subtree
			ref := *g.elems[0].child
			ref.Byte = g.b
			children[i] = ref
			return nil
		}

		child, err := b.build(ctx, g.elems, false)
		if err != nil {
			return err
		}
		id, err := b.store.Save(ctx, child)
		if err != nil {
			return err
		}
		children[i] = ChildRef[R]{
			Byte:   g.b,
			ID:     id,
			Weight: child.Weight(),
			Size:   child.Len(),
			Rollup: child.Rollup(),
		}
		return nil
	}

	if parallel && b.concurrency > 1 && len(groups) > 1 {
		wg, gctx := errgroup.WithContext(ctx)
		wg.SetLimit(b.concurrency)
		for i := range groups {
			i := i
			wg.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return buildChild(gctx, i)
			})
		}
		if err := wg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range groups {
			if err := buildChild(ctx, i); err != nil {
				return nil, err
			}
		}
	}

	return newSharded[V, R](append([]byte(nil), prefix...), value, children), nil
}

type group[V Value[R], R Rollup[R]] struct {
	b     byte
	elems []element[V, R]
}

// groupByByte splits sorted elements by the byte following a prefix of
// length depth, stripping the prefix and that byte from their keys.
func groupByByte[V Value[R], R Rollup[R]](elems []element[V, R], depth int) []group[V, R] {
	var groups []group[V, R]
	for _, e := range elems {
		b := e.key[depth]
		if len(groups) == 0 || groups[len(groups)-1].b != b {
			groups = append(groups, group[V, R]{b: b})
		}
		g := &groups[len(groups)-1]
		g.elems = append(g.elems, element[V, R]{key: e.key[depth+1:], value: e.value, child: e.child})
	}
	return groups
}
