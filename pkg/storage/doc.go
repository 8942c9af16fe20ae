// Copyright © 2018 One Concern

// Package storage provides interface to handle backend storage objects.
//
// This package supports the following backends:
//   - local file system (localfs, any afero.Fs)
//   - embedded key-value store (bdgr, badger)
//   - S3 (sthree, AWS or any S3-compatible endpoint)
//
// Stores may be decorated:
//   - Instrument logs and measures all calls to a store
//   - cached.New keeps recently read objects in memory
//   - compressed.New compresses objects at rest
package storage
