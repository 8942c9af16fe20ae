// Package cafs provides content-addressing primitives.
//
// All content is identified by a blake2b-256 hash of its canonical bytes.
// Hashes are personalized per kind of object: file content, directory manifests
// and the shards of sharded maps never share an identifier space.
//
// A Key is a fixed-width identifier. It renders as lowercase hex and is stored
// by backends under a path built with StringWithPrefix.
package cafs
