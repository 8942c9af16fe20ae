package shardmap

import "context"

// Shape describes the layout of a map
type Shape struct {
	Nodes        int    `json:"nodes"`
	ShardedNodes int    `json:"shardedNodes"`
	Depth        int    `json:"depth"`
	Items        uint64 `json:"items"`
	MaxWeight    uint64 `json:"maxDirectWeight"`
}

// Shape walks a whole map. It loads every node, and is meant for diagnostics.
func (n *Node[V, R]) Shape(ctx context.Context, loader Loader[V, R]) (Shape, error) {
	var s Shape
	var walk func(*Node[V, R], int) error
	walk = func(node *Node[V, R], depth int) error {
		s.Nodes++
		if depth > s.Depth {
			s.Depth = depth
		}
		if !node.sharded {
			s.Items += uint64(len(node.items))
			if w := node.Weight(); w > s.MaxWeight {
				s.MaxWeight = w
			}
			return nil
		}

		s.ShardedNodes++
		if node.value != nil {
			s.Items++
		}
		for _, ref := range node.children {
			child, err := loader.Load(ctx, ref.ID)
			if err != nil {
				return err
			}
			if err := walk(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(n, 1); err != nil {
		return Shape{}, err
	}
	return s, nil
}
