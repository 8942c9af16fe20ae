// Copyright © 2018 One Concern

package localfs

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/oneconcern/dirmanifest/pkg/errors"
	"github.com/oneconcern/dirmanifest/pkg/storage"
	"github.com/oneconcern/dirmanifest/pkg/storage/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHas(t *testing.T) {
	for _, bs := range setupStores(t) {
		has, err := bs.Has(context.Background(), "sixteentons")
		require.NoError(t, err)
		require.True(t, has)

		has, err = bs.Has(context.Background(), "seventeentons")
		require.NoError(t, err)
		require.True(t, has)

		has, err = bs.Has(context.Background(), "fifteentons")
		require.NoError(t, err)
		require.False(t, has)
	}
}

func TestGet(t *testing.T) {
	for _, bs := range setupStores(t) {
		rdr, err := bs.Get(context.Background(), "sixteentons")
		require.NoError(t, err)
		b, err := io.ReadAll(rdr)
		require.NoError(t, err)
		require.NoError(t, rdr.Close())
		assert.Equal(t, "this is the text", string(b))

		b, err = storage.ReadAll(context.Background(), bs, "seventeentons")
		require.NoError(t, err)
		assert.Equal(t, "this is the text for another thing", string(b))

		_, err = bs.Get(context.Background(), "fifteentons")
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrNotExists))
		assert.True(t, storage.IsNotExists(err))
	}
}

func TestKeys(t *testing.T) {
	for _, bs := range setupStores(t) {
		keys, err := bs.Keys(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{"nested/tons", "seventeentons", "sixteentons"}, keys)
	}
}

func TestDelete(t *testing.T) {
	for _, bs := range setupStores(t) {
		require.NoError(t, bs.Delete(context.Background(), "seventeentons"))
		require.NoError(t, bs.Delete(context.Background(), "seventeentons"))
		k, _ := bs.Keys(context.Background())
		assert.Len(t, k, 2)
	}
}

func TestClear(t *testing.T) {
	for _, bs := range setupStores(t) {
		require.NoError(t, bs.Clear(context.Background()))
		k, _ := bs.Keys(context.Background())
		require.Empty(t, k)

		require.NoError(t, bs.Put(context.Background(), "again", bytes.NewBufferString("x"), storage.NoOverWrite))
	}
}

func TestPut(t *testing.T) {
	for _, bs := range setupStores(t) {
		content := bytes.NewBufferString("here we go once again")
		err := bs.Put(context.Background(), "eighteentons", content, storage.NoOverWrite)
		require.NoError(t, err)

		b, err := storage.ReadAll(context.Background(), bs, "eighteentons")
		require.NoError(t, err)
		assert.Equal(t, "here we go once again", string(b))

		k, _ := bs.Keys(context.Background())
		assert.Len(t, k, 4)

		err = bs.Put(context.Background(), "eighteentons", bytes.NewBufferString("other"), storage.NoOverWrite)
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrExists))

		require.NoError(t, bs.Put(context.Background(), "eighteentons", bytes.NewBufferString("short"), storage.OverWrite))
		b, err = storage.ReadAll(context.Background(), bs, "eighteentons")
		require.NoError(t, err)
		assert.Equal(t, "short", string(b))
	}
}

func TestAtomic_ConcurrentPut(t *testing.T) {
	bs, err := NewAtomic(afero.NewMemMapFs())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, bs.Put(context.Background(), "objects/same", bytes.NewBufferString("same content"), storage.OverWrite))
		}()
	}
	wg.Wait()

	b, err := storage.ReadAll(context.Background(), bs, "objects/same")
	require.NoError(t, err)
	assert.Equal(t, "same content", string(b))

	keys, err := bs.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"objects/same"}, keys)

	_, err = bs.Get(context.Background(), ".put-stage/x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidResource))
}

type renameFailingFs struct {
	afero.Fs
}

func (renameFailingFs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: os.ErrPermission}
}

func stagedFiles(t *testing.T, fs afero.Fs) []string {
	var staged []string
	require.NoError(t, afero.Walk(fs, ".put-stage", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			staged = append(staged, path)
		}
		return nil
	}))
	return staged
}

func TestAtomic_FailedPutLeavesNoStagedFile(t *testing.T) {
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	bs, err := NewAtomic(fs)
	require.NoError(t, err)
	broken := io.MultiReader(bytes.NewBufferString("partial"), iotest.ErrReader(errors.New("broken source")))
	require.Error(t, bs.Put(ctx, "objects/broken", broken, storage.OverWrite))
	assert.Empty(t, stagedFiles(t, fs))
	has, err := bs.Has(ctx, "objects/broken")
	require.NoError(t, err)
	assert.False(t, has)

	fs = renameFailingFs{Fs: afero.NewMemMapFs()}
	bs, err = NewAtomic(fs)
	require.NoError(t, err)
	err = bs.Put(ctx, "objects/unmoved", bytes.NewBufferString("content"), storage.OverWrite)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.Empty(t, stagedFiles(t, fs))
}

func TestString(t *testing.T) {
	assert.Equal(t, "localfs", New(afero.NewMemMapFs()).String())
	bs, err := NewAtomic(afero.NewMemMapFs())
	require.NoError(t, err)
	assert.Equal(t, "localfs-atomic", bs.String())
}

func setupStores(t testing.TB) []storage.Store {
	t.Helper()

	plain := New(seedFs(t))
	atomicStore, err := NewAtomic(seedFs(t))
	require.NoError(t, err)

	return []storage.Store{plain, atomicStore}
}

func seedFs(t testing.TB) afero.Fs {
	fs := afero.NewMemMapFs()
	fakeFile(t, fs, "sixteentons", "this is the text")
	fakeFile(t, fs, "seventeentons", "this is the text for another thing")
	require.NoError(t, fs.MkdirAll("nested", 0700))
	fakeFile(t, fs, "nested/tons", "nested text")
	return fs
}

func fakeFile(t testing.TB, fs afero.Fs, file, content string) {
	f, err := fs.Create(file)
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
