package model

import (
	"fmt"

	"github.com/oneconcern/dirmanifest/pkg/cafs"
	"github.com/oneconcern/dirmanifest/pkg/codec"
)

// WeightLimit is the maximum total weight of the entries held directly by a
// single directory manifest node before it is split into shards.
const WeightLimit = 2000

// EntryKind discriminates the variants of an Entry
type EntryKind uint8

// Entry variants
const (
	KindInvalid EntryKind = iota
	KindFile
	KindDirectory
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "invalid"
	}
}

// File describes a file child of a directory.
//
// Size is the length of the content in bytes, recorded with the entry so that
// listing a directory never has to inspect the content store.
type File struct {
	ContentID cafs.Key `cbor:"1,keyasint" json:"contentId"`
	Type      FileType `cbor:"2,keyasint" json:"type"`
	Size      uint64   `cbor:"3,keyasint" json:"size"`
}

// Directory describes a sub-directory, by the identifier of its manifest
type Directory struct {
	ID cafs.Key `cbor:"1,keyasint" json:"id"`
}

// Entry is one named child of a directory: either a File or a Directory.
//
// Entries are immutable values, compared with ==.
type Entry struct {
	kind EntryKind
	file File
	dir  Directory
}

// NewFileEntry builds a file entry
func NewFileEntry(f File) Entry {
	return Entry{kind: KindFile, file: f}
}

// NewDirectoryEntry builds a directory entry
func NewDirectoryEntry(d Directory) Entry {
	return Entry{kind: KindDirectory, dir: d}
}

// Kind of entry
func (e Entry) Kind() EntryKind {
	return e.kind
}

// IsDir tells if this entry is a sub-directory
func (e Entry) IsDir() bool {
	return e.kind == KindDirectory
}

// File yields the file variant of this entry
func (e Entry) File() (File, bool) {
	return e.file, e.kind == KindFile
}

// Directory yields the directory variant of this entry
func (e Entry) Directory() (Directory, bool) {
	return e.dir, e.kind == KindDirectory
}

func (e Entry) String() string {
	switch e.kind {
	case KindFile:
		return fmt.Sprintf("File{%s, %s, %d}", e.file.ContentID.Short(), e.file.Type, e.file.Size)
	case KindDirectory:
		return fmt.Sprintf("Directory{%s}", e.dir.ID.Short())
	default:
		return "Entry{}"
	}
}

// Weight of an entry when deciding to shard a directory
func (e Entry) Weight() int {
	return 1
}

// Rollup summarizes this entry
func (e Entry) Rollup() Rollup {
	switch e.kind {
	case KindFile:
		return Rollup{Files: 1, Bytes: e.file.Size}
	case KindDirectory:
		return Rollup{Directories: 1}
	default:
		return Rollup{}
	}
}

// entryWire is the persisted form of an Entry: exactly one field is set
type entryWire struct {
	File      *File      `cbor:"1,keyasint,omitempty"`
	Directory *Directory `cbor:"2,keyasint,omitempty"`
}

// MarshalCBOR encodes an entry as a single-variant map
func (e Entry) MarshalCBOR() ([]byte, error) {
	var w entryWire
	switch e.kind {
	case KindFile:
		if !e.file.Type.Valid() {
			return nil, ErrInvalidFileType.Wrapf("%d", uint8(e.file.Type))
		}
		f := e.file
		w.File = &f
	case KindDirectory:
		d := e.dir
		w.Directory = &d
	default:
		return nil, ErrInvalidEntry
	}
	return codec.Marshal(w)
}

// UnmarshalCBOR decodes an entry, rejecting unknown or ambiguous variants
func (e *Entry) UnmarshalCBOR(data []byte) error {
	var w entryWire
	if err := codec.Unmarshal(data, &w); err != nil {
		return ErrDecode.Wrap(err)
	}
	switch {
	case w.File != nil && w.Directory != nil:
		return ErrDecode.Wrap(ErrInvalidEntry.Wrapf("both file and directory variants are set"))
	case w.File != nil:
		if !w.File.Type.Valid() {
			return ErrDecode.Wrap(ErrInvalidFileType.Wrapf("%d", uint8(w.File.Type)))
		}
		*e = NewFileEntry(*w.File)
	case w.Directory != nil:
		*e = NewDirectoryEntry(*w.Directory)
	default:
		return ErrDecode.Wrap(ErrInvalidEntry.Wrapf("no variant is set"))
	}
	return nil
}

// Rollup aggregates the entries of a directory: number of files, number of
// sub-directories and total size of the files. It does not descend into
// sub-directories.
type Rollup struct {
	_           struct{} `cbor:",toarray"`
	Files       uint64   `json:"files"`
	Directories uint64   `json:"directories"`
	Bytes       uint64   `json:"bytes"`
}

// Merge two rollups. The zero Rollup is the identity.
func (r Rollup) Merge(o Rollup) Rollup {
	return Rollup{
		Files:       r.Files + o.Files,
		Directories: r.Directories + o.Directories,
		Bytes:       r.Bytes + o.Bytes,
	}
}

// Entries counts all entries summarized by this rollup
func (r Rollup) Entries() uint64 {
	return r.Files + r.Directories
}
