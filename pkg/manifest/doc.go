// Package manifest describes the content of directories as immutable,
// content-addressed manifests.
//
// A manifest maps the names of the children of a directory to entries: files,
// referencing their content, or sub-directories, referencing another manifest
// by identifier. A tree of directories is thus a Merkle DAG of manifests.
//
// Manifests are stored as sharded maps (see package shardmap), so that large
// directories are split into nodes of bounded size, loaded lazily.
package manifest
