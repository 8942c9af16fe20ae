package shardmap

import (
	"bytes"
	"context"
)

// Lookup the value of a key. Only the nodes on the path to the key are
// loaded. A missing key is not an error: it yields false.
func (n *Node[V, R]) Lookup(ctx context.Context, loader Loader[V, R], key []byte) (V, bool, error) {
	var zero V
	node := n
	for {
		if !node.sharded {
			idx := node.lowerBound(key)
			if idx < len(node.items) && bytes.Equal(node.items[idx].Key, key) {
				return node.items[idx].Value, true, nil
			}
			return zero, false, nil
		}

		if !bytes.HasPrefix(key, node.prefix) {
			return zero, false, nil
		}
		rest := key[len(node.prefix):]
		if len(rest) == 0 {
			if node.value != nil {
				return *node.value, true, nil
			}
			return zero, false, nil
		}

		ref, ok := node.child(rest[0])
		if !ok {
			return zero, false, nil
		}
		child, err := loader.Load(ctx, ref.ID)
		if err != nil {
			return zero, false, err
		}
		node, key = child, rest[1:]
	}
}
