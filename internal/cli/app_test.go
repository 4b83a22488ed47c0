package cli

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/kasa/internal/config"
	"github.com/dmitrijs2005/kasa/internal/credentials"
	"github.com/dmitrijs2005/kasa/internal/lifecycle"
	"github.com/dmitrijs2005/kasa/internal/logging"
	"github.com/dmitrijs2005/kasa/internal/notes"
	"github.com/dmitrijs2005/kasa/internal/repositories/metadata"
	"github.com/dmitrijs2005/kasa/internal/session"
	"github.com/dmitrijs2005/kasa/internal/storage"
	"github.com/dmitrijs2005/kasa/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	app *App
	db  *sql.DB
	out *bytes.Buffer
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabasePath = ":memory:"
	cfg.MaxFailedAttempts = 0
	return cfg
}

func newHarness(t *testing.T, script ...string) *harness {
	t.Helper()
	withTerminal(t, false, nil)
	captureOutput(t)

	ctx := context.Background()
	db, err := storage.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := &harness{db: db, out: &bytes.Buffer{}}
	h.app, err = newApp(ctx, testConfig(), logging.Discard(), db, rdr(strings.Join(script, "\n")+"\n"), h.out)
	require.NoError(t, err)
	return h
}

// feed replaces the pending input.
func (h *harness) feed(script ...string) {
	h.app.reader = rdr(strings.Join(script, "\n") + "\n")
}

func (h *harness) run(t *testing.T, script ...string) string {
	t.Helper()
	h.out.Reset()
	h.feed(script...)
	runREPL(context.Background(), h.app, h.app.status, h.app.reader, func() {})
	return h.out.String()
}

func TestApp_FullSession(t *testing.T) {
	h := newHarness(t)
	var copied string
	orig := clipboardWrite
	clipboardWrite = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { clipboardWrite = orig })

	out := h.run(t,
		"setup", "1234", "1234", "1", "Rex",
		"add", "Bank", "secret", "",
		"add", "", "wifi pass", "",
		"list",
		"copy 2",
		"lock",
		"login", "9999",
		"login", "1234",
		"show 2",
		"exit",
	)

	assert.Contains(t, out, "Vault created.")
	assert.Contains(t, out, `Saved "Bank".`)
	assert.Contains(t, out, `Saved "Untitled note".`)
	assert.Contains(t, out, "  1. Untitled note")
	assert.Contains(t, out, "  2. Bank")
	assert.Contains(t, out, "Copied to clipboard.")
	assert.Contains(t, out, "Vault locked.")
	assert.Contains(t, out, "Wrong password, try again.")
	assert.Contains(t, out, "Welcome back! 2 note(s) in the vault.")
	assert.Contains(t, out, "secret")
	assert.Equal(t, "secret", copied)
	assert.Equal(t, session.StateUnlocked, h.app.state())
}

func TestApp_SetupValidation(t *testing.T) {
	h := newHarness(t)

	out := h.run(t,
		"setup", "12ab",
		"setup", "1234", "4321",
		"setup", "12", "12", "1", "Rex",
		"setup", "1234", "1234", "9",
		"setup", "1234", "1234", "2", "x",
		"exit",
	)

	assert.Contains(t, out, "Password must contain digits only.")
	assert.Contains(t, out, "Passwords do not match.")
	assert.Contains(t, out, "Password must be at least 4 characters.")
	assert.Contains(t, out, "Invalid choice.")
	assert.Contains(t, out, "security answer of at least 2 characters")
	assert.Equal(t, session.StateSetup, h.app.state())

	ok, err := credentials.NewSQLiteStore(h.db).HasMasterCredential(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApp_NumericCheckCanBeDisabled(t *testing.T) {
	h := newHarness(t)
	h.app.config.NumericPassword = false

	h.run(t, "setup", "pass", "pass", "5", "Favourite band?", "Queen", "exit")
	assert.Equal(t, session.StateUnlocked, h.app.state())

	q, ok, err := credentials.NewSQLiteStore(h.db).SecurityQuestion(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Favourite band?", q)
}

func TestApp_ForgotAndReset(t *testing.T) {
	h := newHarness(t)
	h.run(t, "setup", "1234", "1234", "1", "Rex", "add", "Bank", "secret", "", "lock", "exit")

	out := h.run(t,
		"forgot", "Max", "5678", "5678",
		"reset", " rex ", "5678", "5678",
		"list",
		"exit",
	)

	assert.Contains(t, out, "What was the name of your first pet?")
	assert.Contains(t, out, "Wrong security answer.")
	assert.Contains(t, out, "Type 'reset' to try again")
	assert.Contains(t, out, "Password changed. Your notes are unchanged.")
	assert.Contains(t, out, "1. Bank")

	out = h.run(t, "lock", "login", "1234", "login", "5678", "exit")
	assert.Contains(t, out, "Wrong password")
	assert.Contains(t, out, "Welcome back! 1 note(s)")
}

func TestApp_CancelReset(t *testing.T) {
	h := newHarness(t)
	h.run(t, "setup", "1234", "1234", "1", "Rex", "lock", "exit")

	h.run(t, "forgot", "nope", "1111", "1111", "cancel", "exit")
	assert.Equal(t, session.StateLocked, h.app.state())
}

func TestApp_ForgotWithoutQuestion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, credentials.NewSQLiteStore(h.db).SetMasterCredential(ctx, "1234"))

	// rebuild so the gate starts locked
	var err error
	h.app, err = newApp(ctx, testConfig(), logging.Discard(), h.db, rdr(""), h.out)
	require.NoError(t, err)
	require.Equal(t, session.StateLocked, h.app.state())

	out := h.run(t, "forgot", "no", "exit")
	assert.Contains(t, out, "No security question was set")
	assert.Contains(t, out, "Nothing was deleted.")
	assert.Equal(t, session.StateLocked, h.app.state())

	out = h.run(t, "forgot", "WIPE", "exit")
	assert.Contains(t, out, "Vault wiped.")
	assert.Equal(t, session.StateSetup, h.app.state())
}

func TestApp_EditColorDelete(t *testing.T) {
	h := newHarness(t)
	h.run(t, "setup", "1234", "1234", "1", "Rex", "add", "Bank", "secret", "", "exit")

	out := h.run(t,
		"edit 1", "", "new secret", "",
		"color 1 purple",
		"color 1 green",
		"show 1",
		"delete 1", "n",
		"delete 7",
		"delete 1", "y",
		"list",
		"exit",
	)

	assert.Contains(t, out, "Note updated.")
	assert.Contains(t, out, "Unknown color.")
	assert.Contains(t, out, "Color updated.")
	assert.Contains(t, out, "Bank\n")
	assert.Contains(t, out, "new secret")
	assert.Contains(t, out, "Kept.")
	assert.Contains(t, out, "No such note.")
	assert.Contains(t, out, "Note deleted.")
	assert.Contains(t, out, "No notes yet.")
}

func TestApp_AddRejectsEmptyContent(t *testing.T) {
	h := newHarness(t)
	h.run(t, "setup", "1234", "1234", "1", "Rex", "exit")

	out := h.run(t, "add", "Title", "", "list", "exit")
	assert.Contains(t, out, "Note content cannot be empty.")
	assert.Contains(t, out, "No notes yet.")
}

func TestApp_CopyFailure(t *testing.T) {
	h := newHarness(t)
	orig := clipboardWrite
	clipboardWrite = func(string) error { return errors.New("no xclip") }
	t.Cleanup(func() { clipboardWrite = orig })

	out := h.run(t, "setup", "1234", "1234", "1", "Rex", "add", "", "x", "", "copy 1", "exit")
	assert.Contains(t, out, "clipboard unavailable: no xclip")
}

func TestApp_ThemeTogglePersists(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	out := h.run(t, "theme", "exit")
	assert.Contains(t, out, "Theme: light.")

	got, err := theme.NewSQLiteStore(h.db).Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, theme.Light, got)

	out = h.run(t, "theme", "exit")
	assert.Contains(t, out, "Theme: dark.")
}

func TestApp_BackgroundLockWhileUnlocked(t *testing.T) {
	h := newHarness(t)
	h.run(t, "setup", "1234", "1234", "1", "Rex", "add", "Bank", "secret", "", "exit")

	h.out.Reset()
	h.app.gate.SetActive(context.Background(), false)
	assert.Contains(t, h.out.String(), "Vault locked.")

	out := h.run(t, "list", "login", "1234", "list", "exit")
	assert.Contains(t, out, "1. Bank")
}

func TestApp_Cooldown(t *testing.T) {
	h := newHarness(t)
	h.run(t, "setup", "1234", "1234", "1", "Rex", "lock", "exit")

	cfg := testConfig()
	cfg.MaxFailedAttempts = 1
	cfg.CooldownBase = time.Minute
	var err error
	h.app, err = newApp(context.Background(), cfg, logging.Discard(), h.db, rdr(""), h.out)
	require.NoError(t, err)

	out := h.run(t, "login", "0000", "login", "1234", "exit")
	assert.Contains(t, out, "Wrong password")
	assert.Contains(t, out, "Too many failed attempts. Try again in 1m0s.")
	assert.Equal(t, session.StateLocked, h.app.state())
}

func TestApp_Close(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.app.Close())
	require.NoError(t, h.app.Close())
}

func TestApp_TypingKeepsVaultUnlocked(t *testing.T) {
	h := newHarness(t)
	h.run(t, "setup", "1234", "1234", "1", "Rex", "exit")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := lifecycle.NewWatcher(200*time.Millisecond, logging.Discard())
	go w.Run(ctx, h.app.gate.SetActive)

	// six lines 60ms apart: longer than the idle period in total
	h.app.reader = bufio.NewReader(&activityReader{
		r:     &lineByLine{lines: []string{"Diary", "one", "two", "three", "four", ""}, delay: 60 * time.Millisecond},
		touch: w.Touch,
	})
	require.NoError(t, h.app.Add(ctx))
	assert.Equal(t, session.StateUnlocked, h.app.state())

	list, err := h.app.gate.Notes()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "one\ntwo\nthree\nfour", list[0].Content)
}

func TestApp_CorruptNotesOfferWipe(t *testing.T) {
	h := newHarness(t)
	h.run(t, "setup", "1234", "1234", "1", "Rex", "add", "Bank", "secret", "", "lock", "exit")
	require.NoError(t, metadata.NewSQLiteRepository(h.db).Set(context.Background(), metadata.KeyNotes, []byte("{bad")))

	out := h.run(t, "login", "1234", "keep", "exit")
	assert.Contains(t, out, "Stored notes are damaged")
	assert.Contains(t, out, "Nothing was deleted.")
	assert.Equal(t, session.StateLocked, h.app.state())

	out = h.run(t, "login", "1234", "WIPE", "setup", "5678", "5678", "1", "Max", "list", "exit")
	assert.Contains(t, out, "Vault wiped.")
	assert.Contains(t, out, "Vault created.")
	assert.Contains(t, out, "No notes yet.")

	stored, err := notes.NewSQLiteStore(h.db).LoadNotes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestApp_CorruptSecurityQuestionAllowsSetup(t *testing.T) {
	h := newHarness(t)
	h.run(t, "setup", "1234", "1234", "1", "Rex", "add", "Bank", "secret", "", "lock", "exit")
	require.NoError(t, metadata.NewSQLiteRepository(h.db).Set(context.Background(), metadata.KeySecurityQA,
		[]byte(`{"v":1,"salt":"AAAA","answer_verifier":"AAAA"}`)))

	out := h.run(t, "forgot", "setup", "5678", "5678", "1", "Max", "list", "exit")
	assert.Contains(t, out, "Vault data is damaged")
	assert.Contains(t, out, "Vault created.")
	assert.Contains(t, out, "No notes yet.")
	assert.Equal(t, session.StateUnlocked, h.app.state())
}
