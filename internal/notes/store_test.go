package notes

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/kasa/internal/repositories/metadata"
	"github.com/dmitrijs2005/kasa/internal/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SQLiteStore, *metadata.SQLiteRepository) {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db), metadata.NewSQLiteRepository(db)
}

func TestLoadNotes_AbsentIsEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	list, err := s.LoadNotes(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSaveThenLoad(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, err := New("Bank", "secret", t0)
	require.NoError(t, err)
	b, err := New("", "wifi: hunter2", t0.Add(1))
	require.NoError(t, err)
	b.Color = "green"
	want := Add([]Note{a}, b)

	require.NoError(t, s.SaveNotes(ctx, want))

	got, err := s.LoadNotes(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveNotes_NilStoresEmptyArray(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveNotes(ctx, nil))

	raw, err := repo.Get(ctx, metadata.KeyNotes)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestLoadNotes_Corrupt(t *testing.T) {
	tests := map[string]string{
		"not json":     "{{",
		"duplicate id": `[{"id":"a","content":"x"},{"id":"a","content":"y"}]`,
		"missing id":   `[{"content":"x"}]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			s, repo := newTestStore(t)
			ctx := context.Background()
			require.NoError(t, repo.Set(ctx, metadata.KeyNotes, []byte(raw)))

			_, err := s.LoadNotes(ctx)
			assert.ErrorIs(t, err, ErrCorruptCollection)
		})
	}
}

func TestSaveNotes_StorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO metadata`).
		WillReturnError(errors.New("disk full"))

	err = NewSQLiteStore(db).SaveNotes(context.Background(), []Note{{ID: "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set metadata[notes]")
	require.NoError(t, mock.ExpectationsWereMet())
}
