package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/kasa/internal/dbx"
	"github.com/dmitrijs2005/kasa/internal/repositories/metadata"
)

// LockState counts consecutive failed logins. It survives restarts so a
// cooldown cannot be skipped by relaunching.
type LockState struct {
	FailedAttempts int       `json:"failed_attempts"`
	CooldownUntil  time.Time `json:"cooldown_until,omitempty"`
}

type LockStateStore interface {
	LoadLockState(ctx context.Context) (LockState, error)
	SaveLockState(ctx context.Context, st LockState) error
	ClearLockState(ctx context.Context) error
}

type SQLiteLockStateStore struct {
	db dbx.DBTX
}

func NewSQLiteLockStateStore(db dbx.DBTX) *SQLiteLockStateStore {
	return &SQLiteLockStateStore{db: db}
}

// LoadLockState returns the zero state when nothing is stored. An
// undecodable record is also treated as zero: it only rate-limits, it does
// not authenticate.
func (s *SQLiteLockStateStore) LoadLockState(ctx context.Context) (LockState, error) {
	var st LockState
	raw, err := metadata.NewSQLiteRepository(s.db).Get(ctx, metadata.KeyLockState)
	if err != nil || len(raw) == 0 {
		return st, err
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return LockState{}, nil
	}
	return st, nil
}

func (s *SQLiteLockStateStore) SaveLockState(ctx context.Context, st LockState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode lock state: %w", err)
	}
	return metadata.NewSQLiteRepository(s.db).Set(ctx, metadata.KeyLockState, raw)
}

func (s *SQLiteLockStateStore) ClearLockState(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, metadata.KeyLockState)
}

// CooldownPolicy escalates the wait after repeated failures: Base once
// MaxFailedAttempts is reached, 10x Base at twice that, 60x Base at four
// times that. MaxFailedAttempts <= 0 disables cooldowns.
type CooldownPolicy struct {
	MaxFailedAttempts int
	Base              time.Duration
}

func (p CooldownPolicy) Cooldown(failed int) time.Duration {
	n := p.MaxFailedAttempts
	if n <= 0 || p.Base <= 0 {
		return 0
	}
	switch {
	case failed >= 4*n:
		return 60 * p.Base
	case failed >= 2*n:
		return 10 * p.Base
	case failed >= n:
		return p.Base
	}
	return 0
}
