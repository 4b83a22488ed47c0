package session

// State is the session's position in the vault lifecycle.
type State int

const (
	StateSetup State = iota
	StateLocked
	StateUnlocked
	StateResetVerification
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	case StateResetVerification:
		return "reset-verification"
	}
	return "unknown"
}

// ForgotOutcome tells the caller what ForgotPassword led to.
type ForgotOutcome int

const (
	// ForgotQuestion: the gate is now in reset-verification.
	ForgotQuestion ForgotOutcome = iota
	// ForgotNeedsWipe: no security question exists; the only way forward is
	// ConfirmWipe after explicit user confirmation.
	ForgotNeedsWipe
)
