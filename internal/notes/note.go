// Package notes defines the vault's note model, the operations on a note
// collection, and the SQLite-backed NoteStore.
//
// A collection is an ordinary slice ordered newest first. The helpers here
// never mutate their input slice; they return the updated collection.
package notes

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/kasa/internal/common"
	"github.com/google/uuid"
)

// DefaultTitle replaces an empty title.
const DefaultTitle = "Untitled note"

var (
	ErrEmptyContent = fmt.Errorf("note content is required: %w", common.ErrorEmptyInput)
	ErrNoteNotFound = fmt.Errorf("note: %w", common.ErrorNotFound)
	ErrUnknownColor = errors.New("unknown note color")
)

// Colors lists the accepted values of Note.Color.
var Colors = []string{"red", "green", "yellow", "blue", "magenta", "cyan"}

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Color     string    `json:"color,omitempty"`
}

func cleanFields(title, content string) (string, string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", "", ErrEmptyContent
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	return title, content, nil
}

// New builds a note with a fresh id.
func New(title, content string, now time.Time) (Note, error) {
	title, content, err := cleanFields(title, content)
	if err != nil {
		return Note{}, err
	}
	return Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: now.UTC(),
	}, nil
}

// Add returns a collection with n in front.
func Add(list []Note, n Note) []Note {
	out := make([]Note, 0, len(list)+1)
	out = append(out, n)
	return append(out, list...)
}

func indexOf(list []Note, id string) int {
	return slices.IndexFunc(list, func(n Note) bool { return n.ID == id })
}

// Find looks a note up by id.
func Find(list []Note, id string) (Note, bool) {
	i := indexOf(list, id)
	if i < 0 {
		return Note{}, false
	}
	return list[i], true
}

// Update replaces title and content of the note with id. Id, creation time
// and color are kept.
func Update(list []Note, id, title, content string) ([]Note, error) {
	i := indexOf(list, id)
	if i < 0 {
		return nil, ErrNoteNotFound
	}
	title, content, err := cleanFields(title, content)
	if err != nil {
		return nil, err
	}

	out := slices.Clone(list)
	out[i].Title = title
	out[i].Content = content
	return out, nil
}

// SetColor sets or, with an empty color, clears the note's color.
func SetColor(list []Note, id, color string) ([]Note, error) {
	i := indexOf(list, id)
	if i < 0 {
		return nil, ErrNoteNotFound
	}
	color = strings.ToLower(strings.TrimSpace(color))
	if color != "" && !slices.Contains(Colors, color) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColor, color)
	}

	out := slices.Clone(list)
	out[i].Color = color
	return out, nil
}

func Delete(list []Note, id string) ([]Note, error) {
	i := indexOf(list, id)
	if i < 0 {
		return nil, ErrNoteNotFound
	}
	return slices.Delete(slices.Clone(list), i, i+1), nil
}

// Validate checks collection-wide invariants of a decoded collection.
func Validate(list []Note) error {
	seen := make(map[string]struct{}, len(list))
	for _, n := range list {
		if n.ID == "" {
			return errors.New("note without id")
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("duplicate note id %s", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	return nil
}
