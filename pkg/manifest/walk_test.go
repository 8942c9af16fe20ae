package manifest

import (
	"context"
	"testing"

	"github.com/oneconcern/dirmanifest/pkg/errors"
	"github.com/oneconcern/dirmanifest/pkg/model"
	"github.com/oneconcern/dirmanifest/pkg/storage/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTree builds:
//
//	README
//	docs/guide.md
//	docs/img/logo.png
//	src/main.go
//	src/util/strings.go
func testTree(t testing.TB, s *Store) Manifest {
	t.Helper()
	ctx := context.Background()

	dir := func(entries ...NamedEntry) model.Entry {
		m, err := s.FromEntries(ctx, entries)
		require.NoError(t, err)
		id, err := s.Save(ctx, m)
		require.NoError(t, err)
		return model.NewDirectoryEntry(model.Directory{ID: id})
	}
	named := func(name string, e model.Entry) NamedEntry {
		return NamedEntry{Name: model.MustPathElement(name), Entry: e}
	}

	root, err := s.FromEntries(ctx, []NamedEntry{
		named("README", fileEntry("readme")),
		named("docs", dir(
			named("guide.md", fileEntry("guide")),
			named("img", dir(named("logo.png", fileEntry("logo")))),
		)),
		named("src", dir(
			named("main.go", fileEntry("package main")),
			named("util", dir(named("strings.go", fileEntry("package util")))),
		)),
	})
	require.NoError(t, err)
	return root
}

func TestWalk(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	root := testTree(t, s)

	var visited []string
	require.NoError(t, s.Walk(ctx, root, func(path string, _ model.Entry) error {
		visited = append(visited, path)
		return nil
	}))
	assert.Equal(t, []string{
		"README",
		"docs",
		"docs/guide.md",
		"docs/img",
		"docs/img/logo.png",
		"src",
		"src/main.go",
		"src/util",
		"src/util/strings.go",
	}, visited)

	visited = nil
	require.NoError(t, s.Walk(ctx, root, func(path string, e model.Entry) error {
		visited = append(visited, path)
		if path == "docs" {
			return SkipDir
		}
		if path == "src/main.go" {
			// skips the rest of src
			return SkipDir
		}
		return nil
	}))
	assert.Equal(t, []string{"README", "docs", "src", "src/main.go"}, visited)

	visited = nil
	require.NoError(t, s.Walk(ctx, root, func(path string, _ model.Entry) error {
		visited = append(visited, path)
		if path == "docs/guide.md" {
			return SkipAll
		}
		return nil
	}))
	assert.Equal(t, []string{"README", "docs", "docs/guide.md"}, visited)

	failure := errors.New("failure")
	err := s.Walk(ctx, root, func(path string, _ model.Entry) error {
		if path == "docs/img" {
			return failure
		}
		return nil
	})
	assert.True(t, errors.Is(err, failure))
}

func TestWalk_MissingDirectory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	other := newTestStore(t)

	// sub-directories only exist in s
	root := testTree(t, s)
	err := other.Walk(ctx, root, func(string, model.Entry) error { return nil })
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExists))
}

func TestLookupPath(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	root := testTree(t, s)

	for _, toPin := range []struct {
		Path  string
		Found bool
		Dir   bool
	}{
		{Path: "README", Found: true},
		{Path: "/README", Found: true},
		{Path: "docs", Found: true, Dir: true},
		{Path: "docs/img/logo.png", Found: true},
		{Path: "docs//img/", Found: true, Dir: true},
		{Path: "src/util/strings.go", Found: true},
		{Path: "src/util/missing.go", Found: false},
		{Path: "missing/util", Found: false},
		{Path: "README/nested", Found: false},
	} {
		fixture := toPin
		t.Run(fixture.Path, func(t *testing.T) {
			entry, found, err := s.LookupPath(ctx, root, fixture.Path)
			require.NoError(t, err)
			require.Equal(t, fixture.Found, found)
			if found {
				assert.Equal(t, fixture.Dir, entry.IsDir())
			}
		})
	}

	entry, found, err := s.LookupPath(ctx, root, "src/util/strings.go")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, fileEntry("package util"), entry)

	for _, invalid := range []string{"", "/", "docs/../src", "docs/./img"} {
		_, _, err := s.LookupPath(ctx, root, invalid)
		assert.Truef(t, errors.Is(err, model.ErrInvalidPathElement), "path %q", invalid)
	}
}
