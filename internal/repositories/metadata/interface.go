// Package metadata is the vault's key/value persistence layer. Each record
// (credential verifier, security Q&A, note collection, theme, lock state)
// is an opaque blob stored under one of the fixed keys below. A missing key
// is a meaningful state, not an error.
package metadata

import (
	"context"
)

// Fixed record keys.
const (
	KeyMasterCredential = "master_credential"
	KeySecurityQA       = "security_qa"
	KeyNotes            = "notes"
	KeyTheme            = "theme"
	KeyLockState        = "lock_state"
)

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys ...string) error
}
