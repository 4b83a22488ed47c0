package cryptox

import (
	"bytes"
	"testing"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("1234")
	salt := []byte("fixed-salt-16byt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	if len(key1) != keyLength {
		t.Errorf("expected key length %d, got %d", keyLength, len(key1))
	}
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("1234")

	key1 := DeriveKey(password, []byte("salt-1"))
	key2 := DeriveKey(password, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestVerifier_DoesNotContainSecret(t *testing.T) {
	secret := []byte("98765432")
	v := Verifier(secret, NewSalt())

	if len(v) != 32 {
		t.Fatalf("expected 32-byte verifier, got %d", len(v))
	}
	if bytes.Contains(v, secret) {
		t.Errorf("verifier must not embed the secret")
	}
}

func TestMatches(t *testing.T) {
	salt := NewSalt()
	stored := Verifier([]byte("1234"), salt)

	if !Matches([]byte("1234"), salt, stored) {
		t.Errorf("expected matching secret to verify")
	}
	if Matches([]byte("4321"), salt, stored) {
		t.Errorf("expected different secret to fail")
	}
	if Matches([]byte("1234"), NewSalt(), stored) {
		t.Errorf("expected different salt to fail")
	}
	if Matches([]byte("1234"), salt, nil) {
		t.Errorf("expected empty stored verifier to fail")
	}
}

func TestNewSalt_Length(t *testing.T) {
	a := NewSalt()
	b := NewSalt()
	if len(a) != SaltLength || len(b) != SaltLength {
		t.Fatalf("unexpected salt lengths: %d, %d", len(a), len(b))
	}
	if bytes.Equal(a, b) {
		t.Logf("warning: two salts are identical; extremely unlikely")
	}
}
