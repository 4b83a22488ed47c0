// Package theme persists the light/dark preference. It is independent of
// the vault's lock state and is read once at startup.
package theme

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/kasa/internal/dbx"
	"github.com/dmitrijs2005/kasa/internal/repositories/metadata"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"

	Default = Dark
)

// Parse accepts "light" or "dark"; anything else yields Default and false.
func Parse(s string) (Theme, bool) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), true
	}
	return Default, false
}

func (t Theme) Toggled() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

type Store interface {
	Theme(ctx context.Context) (Theme, error)
	SetTheme(ctx context.Context, t Theme) error
	Toggle(ctx context.Context) (Theme, error)
}

type SQLiteStore struct {
	db dbx.DBTX
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Theme returns the stored preference. A missing or unrecognised value is
// the default theme.
func (s *SQLiteStore) Theme(ctx context.Context) (Theme, error) {
	raw, err := metadata.NewSQLiteRepository(s.db).Get(ctx, metadata.KeyTheme)
	if err != nil {
		return Default, err
	}
	t, _ := Parse(string(raw))
	return t, nil
}

func (s *SQLiteStore) SetTheme(ctx context.Context, t Theme) error {
	if _, ok := Parse(string(t)); !ok {
		return fmt.Errorf("unknown theme %q", t)
	}
	return metadata.NewSQLiteRepository(s.db).Set(ctx, metadata.KeyTheme, []byte(t))
}

// Toggle flips the stored preference and returns the new value.
func (s *SQLiteStore) Toggle(ctx context.Context) (Theme, error) {
	cur, err := s.Theme(ctx)
	if err != nil {
		return cur, err
	}
	next := cur.Toggled()
	if err := s.SetTheme(ctx, next); err != nil {
		return cur, err
	}
	return next, nil
}
