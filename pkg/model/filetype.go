package model

import "fmt"

// FileType tells how a file entry is materialized
type FileType uint8

// Known file types. The numeric values are persisted.
const (
	FileTypeRegular FileType = iota
	FileTypeExecutable
	FileTypeSymlink
)

var fileTypeNames = [...]string{
	FileTypeRegular:    "regular",
	FileTypeExecutable: "executable",
	FileTypeSymlink:    "symlink",
}

// Valid tells if this is a known file type
func (t FileType) Valid() bool {
	return int(t) < len(fileTypeNames)
}

func (t FileType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("FileType(%d)", uint8(t))
	}
	return fileTypeNames[t]
}

// ParseFileType parses the name of a file type
func ParseFileType(name string) (FileType, error) {
	for i, n := range fileTypeNames {
		if n == name {
			return FileType(i), nil
		}
	}
	return 0, ErrInvalidFileType.Wrapf("%q", name)
}

// MarshalText renders the file type by name, e.g. for JSON output
func (t FileType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, ErrInvalidFileType.Wrapf("%d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText parses a file type by name
func (t *FileType) UnmarshalText(b []byte) error {
	ft, err := ParseFileType(string(b))
	if err != nil {
		return err
	}
	*t = ft
	return nil
}
