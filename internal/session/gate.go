// Package session implements the vault's session state machine. The Gate is
// the single owner of the current SessionState and of the in-memory note
// collection; the UI never changes either directly.
//
// Every Gate method takes the same mutex, so operations run one at a time
// in arrival order. A lock request from the lifecycle watcher therefore
// waits for an in-flight note mutation, which is persisted before the
// mutation returns.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/kasa/internal/logging"
	"github.com/dmitrijs2005/kasa/internal/notes"
	"github.com/dmitrijs2005/kasa/internal/vault"
)

var (
	ErrNotUnlocked    = errors.New("vault is locked")
	ErrWrongState     = errors.New("operation not allowed in current state")
	ErrWipeNotOffered = errors.New("wipe was not offered")
)

// Authenticator is what the Gate needs from vault.Authenticator.
type Authenticator interface {
	IsSetUp(ctx context.Context) (bool, error)
	Setup(ctx context.Context, password, question, answer string) error
	Login(ctx context.Context, password string) error
	BeginReset(ctx context.Context) (string, error)
	CompleteReset(ctx context.Context, answer, newPassword string) error
	Wipe(ctx context.Context) error
}

type Gate struct {
	mu sync.Mutex

	auth  Authenticator
	store notes.Store
	log   logging.Logger
	now   func() time.Time

	state       State
	notes       []notes.Note
	question    string
	wipeOffered bool

	onTransition func(from, to State)
}

// New returns a Gate in setup when no usable master credential exists and
// in locked otherwise. A corrupt credential counts as none.
func New(ctx context.Context, auth Authenticator, store notes.Store, log logging.Logger) (*Gate, error) {
	g := &Gate{
		auth:  auth,
		store: store,
		log:   log.With("component", "session"),
		now:   time.Now,
		state: StateSetup,
	}

	ok, err := auth.IsSetUp(ctx)
	switch {
	case vault.IsIntegrity(err):
		g.log.Warn(ctx, "credential record is corrupt, starting in setup")
	case err != nil:
		return nil, err
	case ok:
		g.state = StateLocked
	}
	return g, nil
}

// OnTransition registers fn to be called after every state change. fn runs
// with the gate's mutex held and must not call back into the Gate.
func (g *Gate) OnTransition(fn func(from, to State)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onTransition = fn
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) transition(ctx context.Context, to State) {
	from := g.state
	if from == to {
		return
	}
	g.state = to
	if to != StateUnlocked {
		g.notes = nil
	}
	if to != StateResetVerification {
		g.question = ""
	}
	g.wipeOffered = false

	g.log.Info(ctx, "session transition", "from", from.String(), "to", to.String())
	if g.onTransition != nil {
		g.onTransition(from, to)
	}
}

func (g *Gate) require(s State) error {
	if g.state != s {
		return fmt.Errorf("%w: %s", ErrWrongState, g.state)
	}
	return nil
}

// degrade moves to setup on integrity failures; the vault cannot
// authenticate anybody any more.
func (g *Gate) degrade(ctx context.Context, err error) error {
	if vault.IsIntegrity(err) {
		g.log.Error(ctx, "credential integrity failure", "state", g.state.String())
		g.transition(ctx, StateSetup)
	}
	return err
}

// Setup creates the vault and unlocks it with an empty note collection.
func (g *Gate) Setup(ctx context.Context, password, question, answer string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.require(StateSetup); err != nil {
		return err
	}

	if err := g.auth.Setup(ctx, password, question, answer); err != nil {
		if errors.Is(err, vault.ErrAlreadySetUp) {
			g.transition(ctx, StateLocked)
		}
		return err
	}

	empty := []notes.Note{}
	if err := g.store.SaveNotes(ctx, empty); err != nil {
		g.transition(ctx, StateLocked)
		return fmt.Errorf("failed to initialize notes: %w", err)
	}
	g.notes = empty
	g.transition(ctx, StateUnlocked)
	return nil
}

// unlock loads the collection after a successful authentication. A corrupt
// collection cannot be opened by anybody, so the session stays locked and
// the wipe is offered.
func (g *Gate) unlock(ctx context.Context) error {
	list, err := g.store.LoadNotes(ctx)
	if err != nil {
		if errors.Is(err, notes.ErrCorruptCollection) {
			g.log.Error(ctx, "note collection is corrupt, offering wipe", "error", err)
			g.transition(ctx, StateLocked)
			g.wipeOffered = true
		}
		return fmt.Errorf("failed to load notes: %w", err)
	}
	g.notes = list
	g.transition(ctx, StateUnlocked)
	return nil
}

func (g *Gate) Login(ctx context.Context, password string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.require(StateLocked); err != nil {
		return err
	}
	g.wipeOffered = false
	if err := g.auth.Login(ctx, password); err != nil {
		return g.degrade(ctx, err)
	}
	return g.unlock(ctx)
}

// ForgotPassword starts the recovery flow from locked.
func (g *Gate) ForgotPassword(ctx context.Context) (ForgotOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.require(StateLocked); err != nil {
		return ForgotQuestion, err
	}

	q, err := g.auth.BeginReset(ctx)
	if errors.Is(err, vault.ErrNoSecurityQuestion) {
		g.wipeOffered = true
		return ForgotNeedsWipe, nil
	}
	if err != nil {
		return ForgotQuestion, g.degrade(ctx, err)
	}

	g.transition(ctx, StateResetVerification)
	g.question = q
	return ForgotQuestion, nil
}

// ConfirmWipe destroys the vault. Only valid right after ForgotPassword
// returned ForgotNeedsWipe or an unlock failed on a corrupt note collection,
// and only until the next lock.
func (g *Gate) ConfirmWipe(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateLocked || !g.wipeOffered {
		return ErrWipeNotOffered
	}
	if err := g.auth.Wipe(ctx); err != nil {
		return err
	}
	g.transition(ctx, StateSetup)
	return nil
}

// Question returns the security question while in reset-verification.
func (g *Gate) Question() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.question, g.state == StateResetVerification
}

func (g *Gate) CompleteReset(ctx context.Context, answer, newPassword string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.require(StateResetVerification); err != nil {
		return err
	}
	if err := g.auth.CompleteReset(ctx, answer, newPassword); err != nil {
		return g.degrade(ctx, err)
	}
	return g.unlock(ctx)
}

func (g *Gate) CancelReset(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.require(StateResetVerification); err != nil {
		return err
	}
	g.transition(ctx, StateLocked)
	return nil
}

// Lock locks an unlocked or mid-reset session and withdraws a pending wipe
// offer. Notes are already persisted at this point; only the in-memory copy
// is dropped.
func (g *Gate) Lock(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.wipeOffered = false
	if g.state == StateUnlocked || g.state == StateResetVerification {
		g.transition(ctx, StateLocked)
	}
}

// SetActive receives the app-lifecycle signal. Going inactive locks the
// session from any state except setup.
func (g *Gate) SetActive(ctx context.Context, active bool) {
	if active {
		g.log.Debug(ctx, "app active")
		return
	}
	g.log.Debug(ctx, "app inactive")
	g.Lock(ctx)
}

// Notes returns a copy of the collection, newest first.
func (g *Gate) Notes() ([]notes.Note, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateUnlocked {
		return nil, ErrNotUnlocked
	}
	return slices.Clone(g.notes), nil
}

// commit persists next and adopts it as the collection. The in-memory
// collection is unchanged if saving fails.
func (g *Gate) commit(ctx context.Context, next []notes.Note) error {
	if err := g.store.SaveNotes(ctx, next); err != nil {
		g.log.Error(ctx, "failed to save notes", "error", err)
		return fmt.Errorf("failed to save notes: %w", err)
	}
	g.notes = next
	return nil
}

func (g *Gate) mutate(ctx context.Context, fn func([]notes.Note) ([]notes.Note, error)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateUnlocked {
		return ErrNotUnlocked
	}
	next, err := fn(g.notes)
	if err != nil {
		return err
	}
	return g.commit(ctx, next)
}

func (g *Gate) AddNote(ctx context.Context, title, content string) (notes.Note, error) {
	var added notes.Note
	err := g.mutate(ctx, func(list []notes.Note) ([]notes.Note, error) {
		n, err := notes.New(title, content, g.now())
		if err != nil {
			return nil, err
		}
		added = n
		return notes.Add(list, n), nil
	})
	return added, err
}

func (g *Gate) UpdateNote(ctx context.Context, id, title, content string) error {
	return g.mutate(ctx, func(list []notes.Note) ([]notes.Note, error) {
		return notes.Update(list, id, title, content)
	})
}

func (g *Gate) SetNoteColor(ctx context.Context, id, color string) error {
	return g.mutate(ctx, func(list []notes.Note) ([]notes.Note, error) {
		return notes.SetColor(list, id, color)
	})
}

func (g *Gate) DeleteNote(ctx context.Context, id string) error {
	return g.mutate(ctx, func(list []notes.Note) ([]notes.Note, error) {
		return notes.Delete(list, id)
	})
}
