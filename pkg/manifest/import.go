package manifest

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/oneconcern/dirmanifest/pkg/cafs"
	"github.com/oneconcern/dirmanifest/pkg/model"
	"github.com/oneconcern/dirmanifest/pkg/storage/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultImportConcurrency is the number of files stored in parallel by Import
const DefaultImportConcurrency = 16

// ImportOption for Import
type ImportOption func(*importer)

// ImportConcurrency sets the number of files stored in parallel
func ImportConcurrency(n int) ImportOption {
	return func(im *importer) {
		if n > 0 {
			im.concurrency = n
		}
	}
}

// Exclude names from an import, at any depth
func Exclude(names ...string) ImportOption {
	return func(im *importer) {
		for _, name := range names {
			im.exclude[name] = struct{}{}
		}
	}
}

// ImportStats counts what an import has stored
type ImportStats struct {
	Files       uint64 `json:"files"`
	Directories uint64 `json:"directories"`
	Bytes       uint64 `json:"bytes"`
	Skipped     uint64 `json:"skipped"`
}

type importer struct {
	store       *Store
	fs          afero.Fs
	concurrency int
	exclude     map[string]struct{}

	mu    sync.Mutex
	stats ImportStats
}

// Import a directory tree from a filesystem, bottom-up: the contents of files
// are stored, then the manifest of every directory. It returns the identifier
// of the manifest of dir.
//
// Regular files are imported as regular or executable files, depending on
// their mode, and symbolic links as symlink files holding their target, when
// the filesystem supports reading links. Other kinds of files are skipped.
func (s *Store) Import(ctx context.Context, fs afero.Fs, dir string, opts ...ImportOption) (cafs.Key, ImportStats, error) {
	im := &importer{
		store:       s,
		fs:          fs,
		concurrency: DefaultImportConcurrency,
		exclude:     make(map[string]struct{}),
	}
	for _, apply := range opts {
		apply(im)
	}

	info, err := fs.Stat(dir)
	if err != nil {
		return cafs.Key{}, ImportStats{}, err
	}
	if !info.IsDir() {
		return cafs.Key{}, ImportStats{}, status.ErrInvalidResource.Wrapf("%s is not a directory", dir)
	}

	id, err := im.importDir(ctx, dir)
	if err != nil {
		return cafs.Key{}, ImportStats{}, err
	}
	return id, im.stats, nil
}

func (im *importer) importDir(ctx context.Context, dir string) (cafs.Key, error) {
	if err := ctx.Err(); err != nil {
		return cafs.Key{}, err
	}
	infos, err := afero.ReadDir(im.fs, dir)
	if err != nil {
		return cafs.Key{}, err
	}

	var (
		mu      sync.Mutex
		subdirs []os.FileInfo
	)
	b := NewBuilder()
	put := func(name model.PathElement, entry model.Entry) error {
		mu.Lock()
		defer mu.Unlock()
		return b.Put(name, entry)
	}

	wg, gctx := errgroup.WithContext(ctx)
	wg.SetLimit(im.concurrency)
	for _, info := range infos {
		if _, excluded := im.exclude[info.Name()]; excluded {
			continue
		}
		if info.IsDir() {
			subdirs = append(subdirs, info)
			continue
		}

		info := info
		wg.Go(func() error {
			name, err := model.NewPathElement(info.Name())
			if err != nil {
				return err
			}
			entry, ok, err := im.importFile(gctx, filepath.Join(dir, info.Name()), info)
			if err != nil || !ok {
				return err
			}
			return put(name, entry)
		})
	}
	if err := wg.Wait(); err != nil {
		return cafs.Key{}, err
	}

	for _, info := range subdirs {
		name, err := model.NewPathElement(info.Name())
		if err != nil {
			return cafs.Key{}, err
		}
		id, err := im.importDir(ctx, filepath.Join(dir, info.Name()))
		if err != nil {
			return cafs.Key{}, err
		}
		if err := b.Put(name, model.NewDirectoryEntry(model.Directory{ID: id})); err != nil {
			return cafs.Key{}, err
		}
	}

	m, err := b.Build(ctx, im.store)
	if err != nil {
		return cafs.Key{}, err
	}
	id, err := im.store.Save(ctx, m)
	if err != nil {
		return cafs.Key{}, err
	}

	im.mu.Lock()
	im.stats.Directories++
	im.mu.Unlock()
	im.store.l.Debug("imported directory", zap.String("path", dir), zap.Stringer("id", id), zap.Uint64("entries", m.Len()))
	return id, nil
}

func (im *importer) importFile(ctx context.Context, path string, info os.FileInfo) (model.Entry, bool, error) {
	var (
		data     []byte
		fileType model.FileType
		err      error
	)

	switch mode := info.Mode(); {
	case mode&os.ModeSymlink != 0:
		reader, ok := im.fs.(afero.LinkReader)
		if !ok {
			im.skip(path, "symbolic links are not supported by this filesystem")
			return model.Entry{}, false, nil
		}
		target, err := reader.ReadlinkIfPossible(path)
		if err != nil {
			return model.Entry{}, false, err
		}
		data, fileType = []byte(target), model.FileTypeSymlink

	case mode.IsRegular():
		if data, err = afero.ReadFile(im.fs, path); err != nil {
			return model.Entry{}, false, err
		}
		fileType = model.FileTypeRegular
		if mode.Perm()&0o111 != 0 {
			fileType = model.FileTypeExecutable
		}

	default:
		im.skip(path, "not a regular file")
		return model.Entry{}, false, nil
	}

	id, err := im.store.PutContent(ctx, data)
	if err != nil {
		return model.Entry{}, false, err
	}

	im.mu.Lock()
	im.stats.Files++
	im.stats.Bytes += uint64(len(data))
	im.mu.Unlock()

	return model.NewFileEntry(model.File{ContentID: id, Type: fileType, Size: uint64(len(data))}), true, nil
}

func (im *importer) skip(path, reason string) {
	im.mu.Lock()
	im.stats.Skipped++
	im.mu.Unlock()
	im.store.l.Info("skipped file", zap.String("path", path), zap.String("reason", reason))
}
