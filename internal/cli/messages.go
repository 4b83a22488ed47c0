package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/kasa/internal/notes"
	"github.com/dmitrijs2005/kasa/internal/session"
	"github.com/dmitrijs2005/kasa/internal/vault"
)

var (
	ErrNotNumeric       = errors.New("password must contain digits only")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrBadChoice        = errors.New("invalid choice")
	ErrNoSuchNote       = errors.New("no such note")
	ErrAmbiguousNote    = errors.New("more than one note matches")
)

// describe turns an error into the text shown to the user. Errors never
// carry secrets, so unknown ones are shown as they are.
func describe(err error) string {
	var ce *vault.CooldownError
	switch {
	case errors.Is(err, vault.ErrPasswordTooShort):
		return fmt.Sprintf("Password must be at least %d characters.", vault.MinPasswordLength)
	case errors.Is(err, vault.ErrAnswerTooShort):
		return fmt.Sprintf("Please enter a security answer of at least %d characters.", vault.MinAnswerLength)
	case errors.Is(err, ErrNotNumeric):
		return "Password must contain digits only."
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, vault.ErrInvalidCredential):
		return "Wrong password, try again."
	case errors.As(err, &ce):
		return fmt.Sprintf("Too many failed attempts. Try again in %s.", ce.Remaining.Round(time.Second))
	case errors.Is(err, vault.ErrWrongAnswer):
		return "Wrong security answer."
	case errors.Is(err, vault.ErrNoSecurityQuestion):
		return "No security question was set for this vault."
	case errors.Is(err, notes.ErrCorruptCollection):
		return "Stored notes are damaged and cannot be read."
	case vault.IsIntegrity(err):
		return "Vault data is damaged and cannot be unlocked. Run 'setup' to create a new vault."
	case errors.Is(err, session.ErrWipeNotOffered):
		return "The vault was locked in the meantime; nothing was deleted."
	case errors.Is(err, session.ErrNotUnlocked):
		return "The vault is locked."
	case errors.Is(err, notes.ErrEmptyContent):
		return "Note content cannot be empty."
	case errors.Is(err, notes.ErrUnknownColor):
		return "Unknown color. Choose one of: " + strings.Join(notes.Colors, ", ") + ", none."
	case errors.Is(err, ErrNoSuchNote), errors.Is(err, notes.ErrNoteNotFound):
		return "No such note. Use 'list' to see note numbers."
	case errors.Is(err, ErrAmbiguousNote):
		return "More than one note matches; use the number from 'list'."
	case errors.Is(err, ErrBadChoice):
		return "Invalid choice."
	}
	return "Error: " + err.Error()
}
