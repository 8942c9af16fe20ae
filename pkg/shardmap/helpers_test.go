package shardmap

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/oneconcern/dirmanifest/internal/rand"
	"github.com/oneconcern/dirmanifest/pkg/cafs"
	"github.com/oneconcern/dirmanifest/pkg/storage/status"
	"github.com/stretchr/testify/require"
)

// testValue weighs 1, 2 or 3
type testValue uint32

func (v testValue) Weight() int { return int(v%3) + 1 }

func (v testValue) Rollup() sumRollup { return sumRollup{Count: 1, Sum: uint64(v)} }

type sumRollup struct {
	_     struct{} `cbor:",toarray"`
	Count uint64
	Sum   uint64
}

func (r sumRollup) Merge(o sumRollup) sumRollup {
	return sumRollup{Count: r.Count + o.Count, Sum: r.Sum + o.Sum}
}

type (
	testNode  = Node[testValue, sumRollup]
	testItem  = Item[testValue]
	testStore = Store[testValue, sumRollup]
)

// memBlobs is an in-memory blob store
type memBlobs struct {
	mu   sync.Mutex
	data map[cafs.Key][]byte
	puts int
	gets int
}

func newMemBlobs() *memBlobs {
	return &memBlobs{data: make(map[cafs.Key][]byte)}
}

func (m *memBlobs) Get(_ context.Context, id cafs.Key) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	data, ok := m.data[id]
	if !ok {
		return nil, status.ErrNotExists.Wrapf("%v", id)
	}
	return data, nil
}

func (m *memBlobs) Put(_ context.Context, id cafs.Key, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.data[id] = data
	return nil
}

func (m *memBlobs) set(id cafs.Key, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = data
}

func (m *memBlobs) remove(id cafs.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
}

func (m *memBlobs) counts() (puts, gets int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts, m.gets
}

// countingLoader records all loaded nodes
type countingLoader struct {
	loader Loader[testValue, sumRollup]
	mu     sync.Mutex
	loads  []cafs.Key
}

func (c *countingLoader) Load(ctx context.Context, id cafs.Key) (*testNode, error) {
	c.mu.Lock()
	c.loads = append(c.loads, id)
	c.mu.Unlock()
	return c.loader.Load(ctx, id)
}

func (c *countingLoader) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.loads)
}

func (c *countingLoader) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads = nil
}

func newTestStore(opts ...Option) (*testStore, *memBlobs) {
	blobs := newMemBlobs()
	return NewStore[testValue, sumRollup](blobs, opts...), blobs
}

// testKeys generates count+4 distinct keys, sharing prefixes at several depths,
// some of which are prefixes of others
func testKeys(count int) []string {
	quarter := count / 4
	keys := rand.Names("", quarter, 6)
	keys = append(keys, rand.Names("dir/", quarter, 4)...)
	keys = append(keys, rand.Names("dir/sub/", quarter, 3)...)
	keys = append(keys, rand.Names("x", count-3*quarter, 8)...)
	return append(keys, "", "dir", "dir/", "dir/sub")
}

func makeItems(keys []string) []testItem {
	items := make([]testItem, len(keys))
	for i, k := range keys {
		items[i] = testItem{Key: []byte(k), Value: testValue(i)}
	}
	return items
}

func sortedItems(items []testItem) []testItem {
	out := append([]testItem(nil), items...)
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].Key, out[j].Key) < 0 })
	return out
}

func collect(t testing.TB, it *Iterator[testValue, sumRollup]) []testItem {
	t.Helper()
	items, err := it.Collect()
	require.NoError(t, err)
	return items
}

func requireSameItems(t testing.TB, expected, actual []testItem) {
	t.Helper()
	require.Equal(t, len(expected), len(actual))
	for i := range expected {
		require.Equalf(t, string(expected[i].Key), string(actual[i].Key), "at position %d", i)
		require.Equalf(t, expected[i].Value, actual[i].Value, "at key %q", expected[i].Key)
	}
}

// nodeBases maps every node reachable from root to the absolute keys it is stored at
func nodeBases(t testing.TB, store *testStore, root *testNode) map[cafs.Key][]string {
	t.Helper()
	bases := make(map[cafs.Key][]string)
	var walk func(*testNode, []byte)
	walk = func(n *testNode, base []byte) {
		for _, ref := range n.Children() {
			childBase := concat(base, n.Prefix(), []byte{ref.Byte})
			bases[ref.ID] = append(bases[ref.ID], string(childBase))
			child, err := store.Load(context.Background(), ref.ID)
			require.NoError(t, err)
			walk(child, childBase)
		}
	}
	walk(root, nil)
	return bases
}

// checkInvariants verifies the structure of a whole map against a weight limit
func checkInvariants(t testing.TB, store *testStore, root *testNode, limit uint64) {
	t.Helper()
	var walk func(*testNode)
	walk = func(n *testNode) {
		if !n.IsSharded() {
			require.Truef(t, n.Weight() <= limit || n.Len() <= 1,
				"direct node of weight %d exceeds %d", n.Weight(), limit)
			return
		}
		require.Greater(t, n.Weight(), limit)
		require.Greater(t, n.Len(), uint64(1))
		for _, ref := range n.Children() {
			child, err := store.Load(context.Background(), ref.ID)
			require.NoError(t, err)
			require.Equal(t, ref.Weight, child.Weight())
			require.Equal(t, ref.Size, child.Len())
			require.Equal(t, ref.Rollup, child.Rollup())
			walk(child)
		}
	}
	walk(root)
}
