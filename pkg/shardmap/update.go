package shardmap

import (
	"bytes"
	"context"
	"sort"
)

// op sets or removes the value at a key
type op[V any] struct {
	key    []byte
	value  V
	remove bool
}

// newOps merges removes and adds into one sorted list of operations, one per key.
// An add wins over a remove of the same key.
func newOps[V any](adds []Item[V], removes [][]byte) ([]op[V], error) {
	byKey := make(map[string]op[V], len(adds)+len(removes))
	for _, k := range removes {
		byKey[string(k)] = op[V]{key: append([]byte{}, k...), remove: true}
	}
	seen := make(map[string]struct{}, len(adds))
	for _, it := range adds {
		k := string(it.Key)
		if _, dup := seen[k]; dup {
			return nil, ErrDuplicateKey.Wrapf("%q", it.Key)
		}
		seen[k] = struct{}{}
		byKey[k] = op[V]{key: append([]byte{}, it.Key...), value: it.Value}
	}

	ops := make([]op[V], 0, len(byKey))
	for _, o := range byKey {
		ops = append(ops, o)
	}
	sort.Slice(ops, func(i, j int) bool { return bytes.Compare(ops[i].key, ops[j].key) < 0 })
	return ops, nil
}

// apply sorted operations to sorted elements. Subtrees are expanded only when
// they may hold the key of an operation.
func (b *builder[V, R]) apply(ctx context.Context, elems []element[V, R], ops []op[V]) ([]element[V, R], error) {
	out := make([]element[V, R], 0, len(elems)+len(ops))
	queue := elems

	for _, o := range ops {
		for len(queue) > 0 {
			e := queue[0]
			if !e.isItem() && bytes.HasPrefix(o.key, e.key) {
				expanded, err := b.expand(ctx, e)
				if err != nil {
					return nil, err
				}
				queue = append(expanded, queue[1:]...)
				continue
			}
			if bytes.Compare(e.key, o.key) < 0 {
				out = append(out, e)
				queue = queue[1:]
				continue
			}
			break
		}

		if len(queue) > 0 && queue[0].isItem() && bytes.Equal(queue[0].key, o.key) {
			queue = queue[1:]
		}
		if !o.remove {
			out = append(out, element[V, R]{key: o.key, value: o.value})
		}
	}

	return append(out, queue...), nil
}
