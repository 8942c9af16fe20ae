// Copyright © 2018 One Concern

package storage

import (
	"github.com/oneconcern/dirmanifest/pkg/errors"
	"github.com/oneconcern/dirmanifest/pkg/storage/status"
)

func isExists(err error) bool {
	return errors.Is(err, status.ErrExists)
}

// IsNotExists tells if the error reports a missing object
func IsNotExists(err error) bool {
	return errors.Is(err, status.ErrNotExists) || errors.Is(err, status.ErrNotFound)
}

