// Package hash wraps bcrypt for file and account passwords.
package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// Hash produces a salted digest of secret. bcrypt embeds a random salt,
// so the same input yields a different digest on every call.
func Hash(secret string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify reports whether candidate matches the secret that produced digest.
// The comparison is constant-time inside bcrypt.
func Verify(digest, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(candidate)) == nil
}
