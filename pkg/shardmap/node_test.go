package shardmap

import (
	"context"
	"testing"

	"github.com/oneconcern/dirmanifest/pkg/cafs"
	"github.com/oneconcern/dirmanifest/pkg/codec"
	"github.com/oneconcern/dirmanifest/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmpty(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	empty := Empty[testValue, sumRollup]()

	data, err := empty.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xa0}, data)

	id1, err := store.ID(empty)
	require.NoError(t, err)
	id2, err := store.ID(Empty[testValue, sumRollup]())
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	built, err := store.Build(ctx, nil)
	require.NoError(t, err)
	id3, err := store.ID(built)
	require.NoError(t, err)
	assert.Equal(t, id1, id3)

	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.IsSharded())
	assert.Zero(t, empty.Len())
	assert.Zero(t, empty.Weight())
	assert.Equal(t, sumRollup{}, empty.Rollup())

	_, found, err := empty.Lookup(ctx, store, []byte("a"))
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = empty.Lookup(ctx, store, []byte{})
	require.NoError(t, err)
	assert.False(t, found)

	assert.Empty(t, collect(t, empty.Entries(ctx, store)))
	assert.Empty(t, collect(t, empty.PrefixEntries(ctx, store, []byte("a"))))
}

func TestHasherPersonalization(t *testing.T) {
	store, _ := newTestStore()
	other, _ := newTestStore(Hasher(cafs.NewHasher("other.node")))
	empty := Empty[testValue, sumRollup]()

	id1, err := store.ID(empty)
	require.NoError(t, err)
	id2, err := other.ID(empty)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestNode_EncodeDecode(t *testing.T) {
	ctx := context.Background()
	store, blobs := newTestStore(WeightLimit(20))

	root, err := store.Build(ctx, makeItems(testKeys(400)))
	require.NoError(t, err)
	require.True(t, root.IsSharded())

	data, err := root.Encode()
	require.NoError(t, err)
	decoded, err := Decode[testValue, sumRollup](data)
	require.NoError(t, err)
	redata, err := decoded.Encode()
	require.NoError(t, err)
	assert.Equal(t, data, redata)
	assert.Equal(t, root.Len(), decoded.Len())
	assert.Equal(t, root.Rollup(), decoded.Rollup())

	// every persisted node re-encodes to the exact same bytes
	for id, stored := range blobs.data {
		node, err := Decode[testValue, sumRollup](stored)
		require.NoError(t, err)
		again, err := node.Encode()
		require.NoError(t, err)
		require.Equalf(t, stored, again, "node %v", id)
		require.Equal(t, id, store.hasher.Sum(again))
	}
}

func TestDecode_Errors(t *testing.T) {
	type wire = nodeWire[testValue, sumRollup]
	mustMarshal := func(v interface{}) []byte {
		data, err := codec.Marshal(v)
		require.NoError(t, err)
		return data
	}
	child := childWire[sumRollup]{Byte: 'a', Size: 1, Weight: 1}

	for _, toPin := range []struct {
		Name string
		Data []byte
	}{
		{Name: "garbage", Data: []byte{0xff, 0x00}},
		{Name: "not a map", Data: mustMarshal([]int{1, 2})},
		{Name: "unknown field", Data: mustMarshal(map[int]int{9: 1})},
		{
			Name: "unsorted items",
			Data: mustMarshal(wire{Items: []itemWire[testValue]{{Key: []byte("b")}, {Key: []byte("a")}}}),
		},
		{
			Name: "duplicate items",
			Data: mustMarshal(wire{Items: []itemWire[testValue]{{Key: []byte("a")}, {Key: []byte("a")}}}),
		},
		{
			Name: "direct node with prefix",
			Data: mustMarshal(wire{Prefix: []byte("a"), Items: []itemWire[testValue]{{Key: []byte("a")}}}),
		},
		{
			Name: "sharded node with items",
			Data: mustMarshal(wire{Sharded: true, Items: []itemWire[testValue]{{Key: []byte("a")}}}),
		},
		{
			Name: "sharded node without children",
			Data: mustMarshal(wire{Sharded: true, Prefix: []byte("a")}),
		},
		{
			Name: "sharded node with a single child",
			Data: mustMarshal(wire{Sharded: true, Children: []childWire[sumRollup]{child}}),
		},
		{
			Name: "unsorted children",
			Data: mustMarshal(wire{Sharded: true, Children: []childWire[sumRollup]{
				{Byte: 'b', Size: 1}, {Byte: 'a', Size: 1},
			}}),
		},
		{
			Name: "empty child",
			Data: mustMarshal(wire{Sharded: true, Children: []childWire[sumRollup]{
				{Byte: 'a', Size: 1}, {Byte: 'b'},
			}}),
		},
	} {
		fixture := toPin
		t.Run(fixture.Name, func(t *testing.T) {
			_, err := Decode[testValue, sumRollup](fixture.Data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecode))
		})
	}

	t.Run("sharded node with a value and a single child", func(t *testing.T) {
		v := testValue(1)
		data := mustMarshal(wire{Sharded: true, Value: &v, Children: []childWire[sumRollup]{child}})
		node, err := Decode[testValue, sumRollup](data)
		require.NoError(t, err)
		assert.EqualValues(t, 2, node.Len())
	})
}
