// Package cryptox holds the one-way derivations Kasa stores in place of
// secrets: the master-password verifier and the security-answer verifier.
//
// A verifier is SHA-256 over an argon2id key derived from (secret, salt).
// Equal inputs always give equal verifiers; there is no inverse.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/kasa/internal/common"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Kept modest because the verifier is checked
// interactively on every unlock.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLength    = 32

	// SaltLength is the size of a freshly generated per-record salt.
	SaltLength = 16
)

// NewSalt returns SaltLength random bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltLength)
}

// DeriveKey stretches secret with argon2id.
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, argonTime, argonMemory, argonThreads, keyLength)
}

// MakeVerifier hashes a derived key into the value that is persisted.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// Verifier derives the stored verifier for secret directly. The
// intermediate key is wiped before returning.
func Verifier(secret []byte, salt []byte) []byte {
	key := DeriveKey(secret, salt)
	defer common.WipeByteArray(key)
	return MakeVerifier(key)
}

// Matches recomputes the verifier for secret and compares it with stored
// in constant time.
func Matches(secret []byte, salt []byte, stored []byte) bool {
	candidate := Verifier(secret, salt)
	return subtle.ConstantTimeCompare(candidate, stored) == 1
}
