package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/kasa/internal/notes"
)

const dateLayout = "2006-01-02 15:04"

// resolve finds a note by its 1-based position in 'list' output or by an
// id prefix of at least 4 characters.
func resolve(list []notes.Note, ref string) (notes.Note, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return notes.Note{}, ErrNoSuchNote
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(list) {
			return notes.Note{}, ErrNoSuchNote
		}
		return list[n-1], nil
	}

	if len(ref) < 4 {
		return notes.Note{}, ErrNoSuchNote
	}
	var found []notes.Note
	for _, n := range list {
		if strings.HasPrefix(n.ID, ref) {
			found = append(found, n)
		}
	}
	switch len(found) {
	case 0:
		return notes.Note{}, ErrNoSuchNote
	case 1:
		return found[0], nil
	}
	return notes.Note{}, ErrAmbiguousNote
}

func (a *App) lookup(ctx context.Context, ref string) (notes.Note, error) {
	list, err := a.gate.Notes()
	if err != nil {
		return notes.Note{}, a.fail(ctx, err)
	}
	n, err := resolve(list, ref)
	if err != nil {
		return notes.Note{}, a.fail(ctx, err)
	}
	return n, nil
}

// List prints the notes, newest first.
func (a *App) List(ctx context.Context) error {
	list, err := a.gate.Notes()
	if err != nil {
		return a.fail(ctx, err)
	}

	if len(list) == 0 {
		a.toast.Info("No notes yet. Type 'add' to create one.")
		return nil
	}

	for i, n := range list {
		title := a.toast.NoteColor(n.Color, n.Title)
		fmt.Fprintf(a.out, "%3d. %s  %s\n", i+1, title, a.toast.Muted(n.CreatedAt.Local().Format(dateLayout)))
	}
	return nil
}

func (a *App) Show(ctx context.Context, ref string) error {
	n, err := a.lookup(ctx, ref)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, a.toast.Accent(n.Title))
	fmt.Fprintln(a.out, a.toast.Muted(fmt.Sprintf("%s  id %s", n.CreatedAt.Local().Format(dateLayout), n.ID)))
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, a.toast.NoteColor(n.Color, n.Content))
	return nil
}

func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title (optional)", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}

	n, err := a.gate.AddNote(ctx, title, content)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.toast.Success("Saved %q.", n.Title)
	return nil
}

// Edit changes title and content; empty input keeps the current value.
func (a *App) Edit(ctx context.Context, ref string) error {
	n, err := a.lookup(ctx, ref)
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s] (Enter to keep)", n.Title), a.out)
	if err != nil {
		return a.fail(ctx, err)
	}
	if title == "" {
		title = n.Title
	}

	content, err := getMultiline(a.reader, "New content (empty to keep current)", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}
	if content == "" {
		content = n.Content
	}

	if err := a.gate.UpdateNote(ctx, n.ID, title, content); err != nil {
		return a.fail(ctx, err)
	}
	a.toast.Success("Note updated.")
	return nil
}

func (a *App) Delete(ctx context.Context, ref string) error {
	n, err := a.lookup(ctx, ref)
	if err != nil {
		return err
	}

	ok, err := confirm(a.reader, fmt.Sprintf("Delete %q?", n.Title), a.out)
	if err != nil {
		return a.fail(ctx, err)
	}
	if !ok {
		a.toast.Info("Kept.")
		return nil
	}

	if err := a.gate.DeleteNote(ctx, n.ID); err != nil {
		return a.fail(ctx, err)
	}
	a.toast.Success("Note deleted.")
	return nil
}

// Color sets a note's color; "none" clears it.
func (a *App) Color(ctx context.Context, ref, color string) error {
	n, err := a.lookup(ctx, ref)
	if err != nil {
		return err
	}
	if strings.EqualFold(color, "none") {
		color = ""
	}
	if err := a.gate.SetNoteColor(ctx, n.ID, color); err != nil {
		return a.fail(ctx, err)
	}
	a.toast.Success("Color updated.")
	return nil
}

// Copy puts a note's content on the system clipboard.
func (a *App) Copy(ctx context.Context, ref string) error {
	n, err := a.lookup(ctx, ref)
	if err != nil {
		return err
	}
	if err := clipboardWrite(n.Content); err != nil {
		return a.fail(ctx, fmt.Errorf("clipboard unavailable: %w", err))
	}
	a.toast.Success("Copied to clipboard.")
	return nil
}
