package manifest

import (
	"context"

	"github.com/oneconcern/dirmanifest/pkg/errors"
	"github.com/oneconcern/dirmanifest/pkg/model"
	"go.uber.org/zap"
)

var (
	// SkipDir is returned by a WalkFunc to skip a directory. When returned for
	// a file, the remaining entries of the enclosing directory are skipped.
	SkipDir = errors.New("skip this directory")

	// SkipAll is returned by a WalkFunc to stop walking
	SkipAll = errors.New("skip everything")
)

// WalkFunc is called for every entry of a tree of manifests, with the
// slash-separated path of the entry relative to the root.
type WalkFunc func(path string, entry model.Entry) error

// Walk a tree of manifests depth-first, visiting the entries of every
// directory ordered by name, and a directory before its content.
// Sub-directories are loaded only when they are reached.
func (s *Store) Walk(ctx context.Context, root Manifest, fn WalkFunc) error {
	err := s.walk(ctx, "", root, fn)
	if errors.Is(err, SkipAll) {
		return nil
	}
	return err
}

func (s *Store) walk(ctx context.Context, parent string, m Manifest, fn WalkFunc) error {
	it := m.Entries(ctx, s)
	for it.Next() {
		e := it.Entry()
		path := model.JoinPath(parent, e.Name)

		err := fn(path, e.Entry)
		dir, isDir := e.Entry.Directory()
		switch {
		case errors.Is(err, SkipDir) && isDir:
			continue
		case errors.Is(err, SkipDir):
			return nil
		case err != nil:
			return err
		case !isDir:
			continue
		}

		s.l.Debug("walk into directory", zap.String("path", path), zap.Stringer("id", dir.ID))
		sub, err := s.Get(ctx, dir.ID)
		if err != nil {
			return err
		}
		if err := s.walk(ctx, path, sub, fn); err != nil {
			return err
		}
	}
	return it.Err()
}

// LookupPath resolves a slash-separated path through a tree of manifests.
// A missing path, or a path traversing a file, yields false.
func (s *Store) LookupPath(ctx context.Context, root Manifest, path string) (model.Entry, bool, error) {
	elems, err := model.SplitPath(path)
	if err != nil {
		return model.Entry{}, false, err
	}
	if len(elems) == 0 {
		return model.Entry{}, false, model.ErrInvalidPathElement.Wrapf("empty path")
	}

	m := root
	for i, name := range elems {
		entry, found, err := m.Lookup(ctx, s, name)
		if err != nil || !found {
			return model.Entry{}, false, err
		}
		if i == len(elems)-1 {
			return entry, true, nil
		}
		dir, ok := entry.Directory()
		if !ok {
			return model.Entry{}, false, nil
		}
		if m, err = s.Get(ctx, dir.ID); err != nil {
			return model.Entry{}, false, err
		}
	}
	return model.Entry{}, false, nil
}
