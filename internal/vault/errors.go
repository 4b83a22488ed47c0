package vault

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/kasa/internal/credentials"
)

// Validation errors: input rejected before any storage is touched.
var (
	ErrPasswordTooShort = errors.New("password must be at least 4 characters")
	ErrAnswerTooShort   = errors.New("security answer must be at least 2 characters")
)

// Authentication errors.
var (
	ErrInvalidCredential = errors.New("wrong password")
	ErrCooldownActive    = errors.New("too many failed attempts")
	ErrAlreadySetUp      = errors.New("vault is already set up")
)

// Reset errors.
var (
	ErrNoSecurityQuestion = errors.New("no security question is set")
	ErrWrongAnswer        = errors.New("wrong security answer")
)

// ErrIntegrity is credentials.ErrIntegrity, re-exported for callers that
// only talk to the authenticator.
var ErrIntegrity = credentials.ErrIntegrity

// CooldownError carries the time left before the next login attempt is
// accepted. It matches ErrCooldownActive with errors.Is.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s, try again in %s", ErrCooldownActive, e.Remaining.Round(time.Second))
}

func (e *CooldownError) Unwrap() error { return ErrCooldownActive }

func IsValidation(err error) bool {
	return errors.Is(err, ErrPasswordTooShort) || errors.Is(err, ErrAnswerTooShort)
}

func IsAuth(err error) bool {
	return errors.Is(err, ErrInvalidCredential) || errors.Is(err, ErrCooldownActive)
}

// IsReset reports the errors of the reset flow. A too-short new password is
// both a validation and a reset error.
func IsReset(err error) bool {
	return errors.Is(err, ErrNoSecurityQuestion) ||
		errors.Is(err, ErrWrongAnswer) ||
		errors.Is(err, ErrPasswordTooShort)
}

func IsIntegrity(err error) bool {
	return errors.Is(err, ErrIntegrity)
}
