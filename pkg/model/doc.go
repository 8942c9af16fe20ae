// Package model describes the objects stored in directory manifests.
//
// A directory is a mapping from path elements (names) to entries:
//
//	Entry:
//	  File      a reference to immutable content, with a file type and a size
//	  Directory a reference to the manifest of a sub-directory
//
// Entries reference other objects only by content identifier, so that a tree of
// directories forms a Merkle DAG of manifests.
//
// Entries carry a weight used to decide when a manifest is sharded, and a rollup
// which summarizes the entries of a directory without enumerating them.
package model
