// Package credentials owns the two secret-derived records of a Kasa vault:
// the master-password verifier and the security question with its answer
// verifier. Plaintext secrets never reach storage; only salted argon2id
// verifiers (see cryptox) are persisted.
//
// A missing record is a normal state (pre-setup, or a vault created without a
// recovery question) and is reported as false/absent. A record that exists but
// cannot be decoded is reported as ErrIntegrity.
package credentials
