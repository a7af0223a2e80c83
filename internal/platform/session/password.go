package session

import (
	"crypto/sha256"
	"crypto/subtle"
)

// PasswordMatches compares a submitted password with the configured one in
// constant time. Both sides are hashed first so the comparison does not
// depend on the secret's length.
func PasswordMatches(given, expected string) bool {
	if expected == "" {
		return false
	}

	g := sha256.Sum256([]byte(given))
	e := sha256.Sum256([]byte(expected))

	return subtle.ConstantTimeCompare(g[:], e[:]) == 1
}
