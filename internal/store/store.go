// Package store provides data access for the shared organization metadata
// table and the dynamic per-organization partition tables.
package store

import "errors"

var (
	// ErrNotFound means no matching non-deleted record (unless the caller
	// asked for deleted records too).
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a store-level uniqueness constraint rejected a write.
	// Existence pre-checks are not atomic with the subsequent insert, so a
	// lost race surfaces here instead of as silent corruption.
	ErrConflict = errors.New("record already exists")
)
