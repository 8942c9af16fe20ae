package bdgr

import (
	"bytes"
	"context"
	"testing"

	"github.com/oneconcern/dirmanifest/pkg/errors"
	"github.com/oneconcern/dirmanifest/pkg/storage"
	"github.com/oneconcern/dirmanifest/pkg/storage/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupStore(t testing.TB) *Store {
	t.Helper()

	s, err := Open("", InMemory(true), Logger(zap.NewNop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "sixteentons", bytes.NewBufferString("this is the text"), storage.NoOverWrite))
	require.NoError(t, s.Put(ctx, "seventeentons", bytes.NewBufferString("this is the text for another thing"), storage.NoOverWrite))
	return s
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	assert.Equal(t, "badger@memory", s.String())

	has, err := s.Has(ctx, "sixteentons")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = s.Has(ctx, "fifteentons")
	require.NoError(t, err)
	assert.False(t, has)

	b, err := storage.ReadAll(ctx, s, "seventeentons")
	require.NoError(t, err)
	assert.Equal(t, "this is the text for another thing", string(b))

	_, err = s.Get(ctx, "fifteentons")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExists))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"seventeentons", "sixteentons"}, keys)
}

func TestPut_Exclusive(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	err := s.Put(ctx, "sixteentons", bytes.NewBufferString("other"), storage.NoOverWrite)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExists))

	require.NoError(t, s.Put(ctx, "sixteentons", bytes.NewBufferString("other"), storage.OverWrite))
	b, err := storage.ReadAll(ctx, s, "sixteentons")
	require.NoError(t, err)
	assert.Equal(t, "other", string(b))
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	require.NoError(t, s.Delete(ctx, "sixteentons"))
	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"seventeentons"}, keys)

	require.NoError(t, s.Clear(ctx))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
