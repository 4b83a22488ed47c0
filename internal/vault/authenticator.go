// Package vault holds the business rules of the Kasa vault: creating the
// master password, logging in, and resetting the password through the
// security answer. It validates input, orchestrates the credential store and
// rate-limits wrong guesses; it keeps no session state of its own.
package vault

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/kasa/internal/credentials"
	"github.com/dmitrijs2005/kasa/internal/logging"
)

const (
	MinPasswordLength = 4
	MinAnswerLength   = 2
)

// Authenticator implements setup, login and password reset.
//
// Contract:
//   - Setup: validate, then write the master credential and the security
//     Q&A in one transaction.
//   - Login: verify the password, subject to cooldown.
//   - BeginReset: return the stored security question.
//   - CompleteReset: verify the answer, then replace the master credential.
//   - Wipe: destroy the vault; reachable only from an explicit confirmation.
//
// Validation, auth and reset failures are returned as the sentinels in
// errors.go. Storage failures and ErrIntegrity are passed through wrapped.
type Authenticator struct {
	creds  credentials.Store
	locks  LockStateStore
	policy CooldownPolicy
	log    logging.Logger
	now    func() time.Time
}

func NewAuthenticator(creds credentials.Store, locks LockStateStore, policy CooldownPolicy, log logging.Logger) *Authenticator {
	return &Authenticator{
		creds:  creds,
		locks:  locks,
		policy: policy,
		log:    log.With("component", "vault"),
		now:    time.Now,
	}
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// IsSetUp reports whether a master credential exists. A corrupt master
// credential or a corrupt security Q&A is reported as ErrIntegrity; either
// one leaves the vault unusable.
func (a *Authenticator) IsSetUp(ctx context.Context) (bool, error) {
	ok, err := a.creds.HasMasterCredential(ctx)
	if err != nil || !ok {
		return false, err
	}
	if _, _, err := a.creds.SecurityQuestion(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Setup creates the vault. Nothing is written when validation fails. A
// corrupt existing vault is wiped and replaced; a healthy one is refused.
func (a *Authenticator) Setup(ctx context.Context, password, question, answer string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	if utf8.RuneCountInString(answer) < MinAnswerLength {
		return ErrAnswerTooShort
	}

	exists, err := a.IsSetUp(ctx)
	switch {
	case IsIntegrity(err):
		a.log.Warn(ctx, "replacing corrupt vault", "error", err)
	case err != nil:
		return err
	case exists:
		return ErrAlreadySetUp
	}

	// Create removes every old vault record in the same transaction.
	if err := a.creds.Create(ctx, password, question, answer); err != nil {
		return err
	}

	a.log.Info(ctx, "vault set up")
	return nil
}

// Login verifies password. While a cooldown is running the password is not
// even checked.
func (a *Authenticator) Login(ctx context.Context, password string) error {
	st, err := a.checkCooldown(ctx)
	if err != nil {
		return err
	}

	ok, err := a.creds.VerifyPassword(ctx, password)
	if err != nil {
		return err
	}
	if !ok {
		if err := a.recordFailure(ctx, st, "login"); err != nil {
			return err
		}
		return ErrInvalidCredential
	}

	return a.resetFailures(ctx, st)
}

// BeginReset returns the security question, or ErrNoSecurityQuestion when
// the vault has none. In that case only Wipe remains.
func (a *Authenticator) BeginReset(ctx context.Context) (string, error) {
	q, ok, err := a.creds.SecurityQuestion(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoSecurityQuestion
	}
	return q, nil
}

// CompleteReset replaces the master password after a correct answer. The
// security Q&A and the notes are left untouched. Wrong answers count
// towards the same cooldown as wrong passwords.
func (a *Authenticator) CompleteReset(ctx context.Context, answer, newPassword string) error {
	st, err := a.checkCooldown(ctx)
	if err != nil {
		return err
	}

	ok, err := a.creds.VerifySecurityAnswer(ctx, answer)
	if err != nil {
		return err
	}
	if !ok {
		if err := a.recordFailure(ctx, st, "reset"); err != nil {
			return err
		}
		return ErrWrongAnswer
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if err := a.creds.SetMasterCredential(ctx, newPassword); err != nil {
		return err
	}

	a.log.Info(ctx, "master password reset")
	return a.resetFailures(ctx, st)
}

// Wipe irreversibly deletes the vault.
func (a *Authenticator) Wipe(ctx context.Context) error {
	if err := a.creds.Wipe(ctx); err != nil {
		return err
	}
	a.log.Warn(ctx, "vault wiped")
	return nil
}

func (a *Authenticator) checkCooldown(ctx context.Context) (LockState, error) {
	st, err := a.locks.LoadLockState(ctx)
	if err != nil {
		return st, err
	}
	if remaining := st.CooldownUntil.Sub(a.now()); remaining > 0 {
		return st, &CooldownError{Remaining: remaining}
	}
	return st, nil
}

func (a *Authenticator) recordFailure(ctx context.Context, st LockState, op string) error {
	st.FailedAttempts++
	st.CooldownUntil = time.Time{}
	if d := a.policy.Cooldown(st.FailedAttempts); d > 0 {
		st.CooldownUntil = a.now().Add(d).UTC()
		a.log.Warn(ctx, "cooldown activated", "op", op, "failed_attempts", st.FailedAttempts, "cooldown", d)
	} else {
		a.log.Info(ctx, "authentication failed", "op", op, "failed_attempts", st.FailedAttempts)
	}
	return a.locks.SaveLockState(ctx, st)
}

func (a *Authenticator) resetFailures(ctx context.Context, st LockState) error {
	if st.FailedAttempts == 0 && st.CooldownUntil.IsZero() {
		return nil
	}
	return a.locks.ClearLockState(ctx)
}

// Cooldown returns the time left on a running cooldown, if any.
func (a *Authenticator) Cooldown(ctx context.Context) (time.Duration, error) {
	_, err := a.checkCooldown(ctx)
	var ce *CooldownError
	if errors.As(err, &ce) {
		return ce.Remaining, nil
	}
	return 0, err
}
