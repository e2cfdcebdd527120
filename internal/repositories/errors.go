package repositories

import "errors"

// Common repository errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
	// ErrStaleStatus means a conditional status write matched no row: a
	// concurrent transition won between the caller's read and write.
	ErrStaleStatus = errors.New("status changed concurrently")
)
