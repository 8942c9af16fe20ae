// Package shardmap implements a persistent, content-addressed map from byte-string
// keys to values, sharded by key prefix.
//
// A Node is either direct, holding its items inline, or sharded:
//
//	direct:  items   [(key, value)] sorted by key
//	sharded: prefix  common prefix of all keys below this node
//	         value   optional value stored at exactly prefix
//	         children [(byte, id, weight, size, rollup)] sorted by byte
//
// Keys held by a child are relative to the parent prefix followed by the child
// byte. Children are referenced by the content identifier of their canonical
// encoding, and fetched from a Loader only when a lookup or an enumeration
// reaches them.
//
// The shape of a map is a pure function of its contents. Given a weight limit,
// a set of items S becomes:
//   - a direct node, whenever the total weight of S does not exceed the limit
//     or S holds at most one item;
//   - a sharded node otherwise, with prefix the longest common prefix of the
//     keys of S, and one child per distinct byte following that prefix, each
//     child built the same way from the items it receives.
//
// Building the same set of items, or reaching it through any sequence of
// updates, therefore always produces byte-identical nodes and identical
// identifiers. Updates load only the nodes on the paths of the updated keys
// and reuse all other children by identifier.
//
// Every value has a weight, which decides when a node is sharded, and a
// rollup, an associative summary merged bottom-up so that aggregates over a
// whole map are available from its root without fetching any child.
package shardmap
