package repository

import (
	"context"
	"errors"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
)

// Keys under which the journal documents are stored
const (
	StateKey       = "tz_pro_v1"
	PreferencesKey = "tz_prefs_v1"
)

// BlobRepository stores whole documents by key. Every write replaces the
// previous document for that key.
type BlobRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}
