package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/kasa/internal/common"
	"github.com/dmitrijs2005/kasa/internal/notes"
	"github.com/dmitrijs2005/kasa/internal/session"
	"github.com/dmitrijs2005/kasa/internal/vault"
)

// getSimpleText, getPassword, getMultiline and confirm are indirections
// used to facilitate testing. They point to interactive input helpers and
// can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	confirm       = Confirm
)

func (a *App) checkNumeric(pw []byte) error {
	if !a.config.NumericPassword {
		return nil
	}
	for _, c := range pw {
		if c < '0' || c > '9' {
			return ErrNotNumeric
		}
	}
	return nil
}

// readNewPassword asks for a password twice.
func (a *App) readNewPassword(prompt string) (string, error) {
	pw, err := getPassword(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	if err := a.checkNumeric(pw); err != nil {
		return "", err
	}

	again, err := getPassword(a.reader, "Repeat password", a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(again)
	if string(pw) != string(again) {
		return "", ErrPasswordMismatch
	}
	return string(pw), nil
}

func (a *App) chooseQuestion() (string, error) {
	fmt.Fprintln(a.out, "Choose a security question:")
	for i, q := range common.SecurityQuestions {
		fmt.Fprintf(a.out, "  %d) %s\n", i+1, q)
	}
	custom := len(common.SecurityQuestions) + 1
	fmt.Fprintf(a.out, "  %d) Write my own question\n", custom)

	choice, err := getSimpleText(a.reader, fmt.Sprintf("Question [1-%d]", custom), a.out)
	if err != nil {
		return "", err
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > custom {
		return "", ErrBadChoice
	}
	if n < custom {
		return common.SecurityQuestions[n-1], nil
	}

	q, err := getSimpleText(a.reader, "Your question", a.out)
	if err != nil {
		return "", err
	}
	if q == "" {
		return "", ErrBadChoice
	}
	return q, nil
}

// Setup creates the vault: master password, security question and answer.
func (a *App) Setup(ctx context.Context) error {
	pw, err := a.readNewPassword("New master password")
	if err != nil {
		return a.fail(ctx, err)
	}

	q, err := a.chooseQuestion()
	if err != nil {
		return a.fail(ctx, err)
	}

	answer, err := getPassword(a.reader, "Answer (hidden)", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}
	defer common.WipeByteArray(answer)

	if err := a.gate.Setup(ctx, pw, q, string(answer)); err != nil {
		return a.fail(ctx, err)
	}

	a.toast.Success("Vault created. Type 'add' to write your first note.")
	return nil
}

// Login unlocks the vault.
func (a *App) Login(ctx context.Context) error {
	pw, err := getPassword(a.reader, "Master password", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}
	defer common.WipeByteArray(pw)

	if err := a.gate.Login(ctx, string(pw)); err != nil {
		if errors.Is(err, notes.ErrCorruptCollection) {
			return a.offerWipe(ctx, err)
		}
		return a.fail(ctx, err)
	}

	list, _ := a.gate.Notes()
	a.toast.Success("Welcome back! %d note(s) in the vault.", len(list))
	return nil
}

// Forgot starts password recovery. With a security question it continues
// straight into Reset; without one the only way out is wiping the vault.
func (a *App) Forgot(ctx context.Context) error {
	outcome, err := a.gate.ForgotPassword(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}

	if outcome == session.ForgotQuestion {
		return a.Reset(ctx)
	}
	return a.offerWipe(ctx, vault.ErrNoSecurityQuestion)
}

// offerWipe explains why the vault cannot be opened and wipes it only after
// the user types WIPE.
func (a *App) offerWipe(ctx context.Context, cause error) error {
	a.log.Debug(ctx, "offering wipe", "cause", cause)
	a.toast.Error("%s", describe(cause))
	fmt.Fprintln(a.out, "The only way forward is to delete ALL notes and start over.")
	answer, err := getSimpleText(a.reader, "Type WIPE to delete everything, anything else to keep it", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}
	if strings.TrimSpace(answer) != "WIPE" {
		a.toast.Info("Nothing was deleted.")
		return nil
	}

	if err := a.gate.ConfirmWipe(ctx); err != nil {
		return a.fail(ctx, err)
	}
	a.toast.Success("Vault wiped. Type 'setup' to create a new one.")
	return nil
}

// Reset answers the security question and sets a new password.
func (a *App) Reset(ctx context.Context) error {
	q, ok := a.gate.Question()
	if !ok {
		return a.fail(ctx, session.ErrWrongState)
	}
	fmt.Fprintf(a.out, "Security question: %s\n", a.toast.Accent(q))

	answer, err := getPassword(a.reader, "Answer (hidden)", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}
	defer common.WipeByteArray(answer)

	pw, err := a.readNewPassword("New master password")
	if err != nil {
		return a.fail(ctx, err)
	}

	if err := a.gate.CompleteReset(ctx, string(answer), pw); err != nil {
		if errors.Is(err, notes.ErrCorruptCollection) {
			return a.offerWipe(ctx, err)
		}
		if a.state() == session.StateResetVerification {
			fmt.Fprintln(a.out, "Type 'reset' to try again or 'cancel' to go back.")
		}
		return a.fail(ctx, err)
	}

	a.toast.Success("Password changed. Your notes are unchanged.")
	return nil
}

func (a *App) CancelReset(ctx context.Context) error {
	if err := a.gate.CancelReset(ctx); err != nil {
		return a.fail(ctx, err)
	}
	return nil
}

// Lock locks the vault; the transition hook prints the notice.
func (a *App) Lock(ctx context.Context) error {
	before := a.state()
	a.gate.Lock(ctx)
	if before == session.StateResetVerification {
		a.toast.Info("Vault locked.")
	}
	return nil
}
