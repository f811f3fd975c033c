package storage

import "context"

// Store is a durable key-value store for serialized state snapshots. The
// scheduler persists its entry set under one key and the filter engine its
// rule set under another; neither cares which backend sits behind the
// interface.
type Store interface {
	// Load returns the blob stored under key, or ErrKeyNotFound if the key
	// has never been saved.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores the blob under key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error
}
