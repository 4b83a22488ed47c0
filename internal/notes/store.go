package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kasa/internal/dbx"
	"github.com/dmitrijs2005/kasa/internal/repositories/metadata"
)

// ErrCorruptCollection is returned when the stored collection cannot be
// decoded.
var ErrCorruptCollection = errors.New("note collection is corrupt")

// Store persists the whole collection as one record.
type Store interface {
	LoadNotes(ctx context.Context) ([]Note, error)
	SaveNotes(ctx context.Context, list []Note) error
}

type SQLiteStore struct {
	db dbx.DBTX
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// LoadNotes returns the stored collection; an absent record is an empty
// collection.
func (s *SQLiteStore) LoadNotes(ctx context.Context) ([]Note, error) {
	raw, err := metadata.NewSQLiteRepository(s.db).Get(ctx, metadata.KeyNotes)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []Note{}, nil
	}

	var list []Note
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCollection, err)
	}
	if err := Validate(list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCollection, err)
	}
	if list == nil {
		list = []Note{}
	}
	return list, nil
}

func (s *SQLiteStore) SaveNotes(ctx context.Context, list []Note) error {
	if list == nil {
		list = []Note{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}
	return metadata.NewSQLiteRepository(s.db).Set(ctx, metadata.KeyNotes, raw)
}
