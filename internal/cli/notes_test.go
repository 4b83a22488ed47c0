package cli

import (
	"testing"

	"github.com/dmitrijs2005/kasa/internal/notes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	list := []notes.Note{
		{ID: "aaaa1111-0000", Title: "A"},
		{ID: "aaaa2222-0000", Title: "B"},
		{ID: "bbbb3333-0000", Title: "C"},
	}

	n, err := resolve(list, "2")
	require.NoError(t, err)
	assert.Equal(t, "B", n.Title)

	n, err = resolve(list, "bbbb")
	require.NoError(t, err)
	assert.Equal(t, "C", n.Title)

	_, err = resolve(list, "aaaa")
	assert.ErrorIs(t, err, ErrAmbiguousNote)

	for _, ref := range []string{"", "0", "4", "-1", "abc", "zzzz"} {
		_, err = resolve(list, ref)
		assert.ErrorIs(t, err, ErrNoSuchNote, ref)
	}
}
