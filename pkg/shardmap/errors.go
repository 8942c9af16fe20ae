package shardmap

import "github.com/oneconcern/dirmanifest/pkg/errors"

var (
	// ErrDecode indicates bytes which do not decode into a valid node
	ErrDecode = errors.New("cannot decode sharded map node")

	// ErrHashMismatch indicates a fetched node whose content does not match the requested identifier
	ErrHashMismatch = errors.New("node content does not match its identifier")

	// ErrInvalidNode indicates a node which violates the structure of a sharded map
	ErrInvalidNode = errors.New("invalid node")

	// ErrDuplicateKey indicates the same key given twice to build a map
	ErrDuplicateKey = errors.New("duplicate key")
)
