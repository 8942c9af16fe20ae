package model

import "github.com/oneconcern/dirmanifest/pkg/errors"

var (
	// ErrDecode indicates that some persisted bytes do not decode into a valid model object
	ErrDecode = errors.New("cannot decode model object")

	// ErrInvalidPathElement indicates that a name cannot be used as a path component
	ErrInvalidPathElement = errors.New("invalid path element")

	// ErrInvalidFileType indicates an unknown file type
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrInvalidEntry indicates an entry which is neither a file nor a directory
	ErrInvalidEntry = errors.New("invalid entry")
)
