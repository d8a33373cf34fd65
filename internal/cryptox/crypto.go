// Package cryptox derives password verifiers for the local sign-in provider.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of freshly generated account salts.
const SaltSize = 32

// DeriveKey stretches password with argon2id (1 pass, 64 MiB, 4 lanes).
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier returns the value stored locally to check a password later.
// The derived key itself is never persisted.
func MakeVerifier(password []byte, salt []byte) []byte {
	key := DeriveKey(password, salt)
	sum := sha256.Sum256(key)
	return sum[:]
}

// CheckVerifier reports whether password matches the stored verifier.
func CheckVerifier(password []byte, salt []byte, verifier []byte) bool {
	candidate := MakeVerifier(password, salt)
	return subtle.ConstantTimeCompare(candidate, verifier) == 1
}
