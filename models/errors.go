package models

import "errors"

var (
	// ErrNotAuthenticated means no identity was available for an operation requiring one.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrStoreUnavailable wraps network/store failures on read or write.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrInvalidRecord means a stored record failed validation at the store boundary.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrInvalidKey means a user or record key cannot address a single child.
	ErrInvalidKey = errors.New("invalid key")
	// ErrNotFound means the addressed record does not exist.
	ErrNotFound = errors.New("record not found")
)
