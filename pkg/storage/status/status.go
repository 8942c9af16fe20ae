// Copyright © 2018 One Concern

// Package status declares the errors returned by the backends of
// storage.Store, and by the decorators stacked over them.
//
// They live apart from pkg/storage so that backends and their callers may
// test errors without importing each other.
package status

import "github.com/oneconcern/dirmanifest/pkg/errors"

var (
	// ErrNotExists is returned when getting an object which is not stored
	ErrNotExists = errors.New("object doesn't exist")

	// ErrNotFound is returned when the backend itself is missing, e.g. an unknown bucket
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the backend rejects the credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the credentials do not grant access to the object
	ErrForbidden = errors.New("forbidden")

	// ErrNotSupported is returned for operations or settings a backend cannot honor
	ErrNotSupported = errors.New("not supported")

	// ErrExists is returned by exclusive puts of an object which is already stored
	ErrExists = errors.New("exists already")

	// ErrObjectTooBig is returned for objects which would not fit in memory once decoded
	ErrObjectTooBig = errors.New("object too big to be read into memory")

	// ErrInvalidResource is returned for malformed object keys or resource names
	ErrInvalidResource = errors.New("invalid storage resource name")

	// ErrStorageAPI wraps any other backend error
	ErrStorageAPI = errors.New("storage API error")
)
