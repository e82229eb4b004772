package storage

import (
	"context"
	"errors"
)

var (
	// ErrCorruptStore is returned when an existing store cannot be parsed.
	// The underlying file is never modified in that case.
	ErrCorruptStore = errors.New("corrupt store")
	// ErrWriteFailure is returned when the store cannot be persisted.
	ErrWriteFailure = errors.New("write failure")
)

// Backend defines the interface for loading and persisting the set of
// previously emitted user-agents.
type Backend interface {
	// Load returns the stored set, or an empty set if nothing was stored yet.
	Load(ctx context.Context) (*Set, error)
	// Save replaces the stored contents with the full set.
	Save(ctx context.Context, set *Set) error
	Close() error
}
