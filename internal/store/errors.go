// Package store defines persistence-level sentinel errors shared by
// storage backends and the services that consume them.
package store

import "errors"

// Sentinel errors returned by storage operations.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)
