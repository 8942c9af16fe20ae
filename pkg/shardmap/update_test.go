package shardmap

import (
	"context"
	"testing"

	"github.com/oneconcern/dirmanifest/internal/rand"
	"github.com/oneconcern/dirmanifest/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapItems(m map[string]testValue) []testItem {
	items := make([]testItem, 0, len(m))
	for k, v := range m {
		items = append(items, testItem{Key: []byte(k), Value: v})
	}
	return sortedItems(items)
}

func TestUpdate_MatchesBuild(t *testing.T) {
	ctx := context.Background()
	const limit = 25
	store, _ := newTestStore(WeightLimit(limit))

	model := make(map[string]testValue)
	for _, it := range makeItems(testKeys(600)) {
		model[string(it.Key)] = it.Value
	}
	root, err := store.Build(ctx, mapItems(model))
	require.NoError(t, err)

	for round := 0; round < 20; round++ {
		current := make([]string, 0, len(model))
		for k := range model {
			current = append(current, k)
		}
		current = rand.Shuffle(current)

		var removes [][]byte
		for _, k := range current[:rand.Intn(len(current)/4+1)] {
			removes = append(removes, []byte(k))
		}
		removes = append(removes, []byte("dir/nothing-here"))

		addKeys := make(map[string]struct{})
		replaced := rand.Intn(30)
		if replaced > len(current) {
			replaced = len(current)
		}
		for _, k := range current[:replaced] {
			addKeys[k] = struct{}{}
		}
		for _, k := range rand.Names("dir/sub/", rand.Intn(40), 5) {
			addKeys[k] = struct{}{}
		}
		for _, k := range rand.Names("", rand.Intn(40), 3) {
			addKeys[k] = struct{}{}
		}
		var adds []testItem
		for k := range addKeys {
			adds = append(adds, testItem{Key: []byte(k), Value: testValue(rand.Intn(1000))})
		}

		for _, k := range removes {
			delete(model, string(k))
		}
		for _, it := range adds {
			model[string(it.Key)] = it.Value
		}

		root, err = store.Update(ctx, root, adds, removes)
		require.NoError(t, err)

		expected, err := store.Build(ctx, mapItems(model))
		require.NoError(t, err)
		expectedID, err := store.ID(expected)
		require.NoError(t, err)
		id, err := store.ID(root)
		require.NoError(t, err)
		require.Equalf(t, expectedID, id, "round %d", round)

		checkInvariants(t, store, root, limit)
		requireSameItems(t, mapItems(model), collect(t, root.Entries(ctx, store)))
	}
}

func TestUpdate_RemoveAll(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(WeightLimit(10))
	keys := testKeys(200)

	root, err := store.Build(ctx, makeItems(keys))
	require.NoError(t, err)
	require.True(t, root.IsSharded())

	removes := make([][]byte, len(keys))
	for i, k := range keys {
		removes[i] = []byte(k)
	}
	root, err = store.Update(ctx, root, nil, removes)
	require.NoError(t, err)

	data, err := root.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xa0}, data)
	assert.True(t, root.IsEmpty())
}

func TestUpdate_AddWinsOverRemove(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	root, err := store.Build(ctx, []testItem{{Key: []byte("a"), Value: 1}, {Key: []byte("b"), Value: 2}})
	require.NoError(t, err)

	root, err = store.Update(ctx, root,
		[]testItem{{Key: []byte("a"), Value: 10}},
		[][]byte{[]byte("a"), []byte("b")},
	)
	require.NoError(t, err)
	requireSameItems(t, []testItem{{Key: []byte("a"), Value: 10}}, collect(t, root.Entries(ctx, store)))
}

func TestUpdate_DuplicateAdd(t *testing.T) {
	store, _ := newTestStore()
	_, err := store.Update(context.Background(), Empty[testValue, sumRollup](),
		[]testItem{{Key: []byte("a"), Value: 1}, {Key: []byte("a"), Value: 2}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateKey))
}

func TestUpdate_NoOp(t *testing.T) {
	ctx := context.Background()
	store, blobs := newTestStore(WeightLimit(10))
	root, err := store.Build(ctx, makeItems(testKeys(100)))
	require.NoError(t, err)

	putsBefore, getsBefore := blobs.counts()
	updated, err := store.Update(ctx, root, nil, nil)
	require.NoError(t, err)
	assert.Same(t, root, updated)
	puts, gets := blobs.counts()
	assert.Equal(t, putsBefore, puts)
	assert.Equal(t, getsBefore, gets)
}

func TestUpdate_SharesUnchangedNodes(t *testing.T) {
	ctx := context.Background()
	store, blobs := newTestStore()
	items := makeItems(testKeys(8000))

	root, err := store.Build(ctx, items)
	require.NoError(t, err)
	shape, err := root.Shape(ctx, store)
	require.NoError(t, err)
	require.GreaterOrEqual(t, shape.Depth, 2)

	// same weight, different value
	target := items[len(items)/2]
	putsBefore, getsBefore := blobs.counts()
	updated, err := store.Update(ctx, root, []testItem{{Key: target.Key, Value: target.Value + 3}}, nil)
	require.NoError(t, err)
	puts, gets := blobs.counts()

	assert.LessOrEqual(t, gets-getsBefore, shape.Depth-1, "only nodes on the path are loaded")
	assert.LessOrEqual(t, puts-putsBefore, shape.Depth-1, "only nodes on the path are rewritten")

	v, found, err := updated.Lookup(ctx, store, target.Key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, target.Value+3, v)
	assert.Equal(t, root.Len(), updated.Len())

	unchanged := 0
	for i, ref := range updated.Children() {
		if ref.ID == root.Children()[i].ID {
			unchanged++
		}
	}
	assert.GreaterOrEqual(t, unchanged, len(root.Children())-1)
}
