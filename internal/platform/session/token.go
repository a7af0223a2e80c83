// Package session issues and verifies the stateless admin session token.
//
// A token is base64url(JSON {"t": issuedAtMillis}) followed by "." and the
// base64url HMAC-SHA256 of that payload under the shared admin secret.
// Tokens carry no identity; holding a valid one means "is admin".
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxAge is how long a token stays valid after it was issued.
const MaxAge = 7 * 24 * time.Hour

var (
	// ErrNoSecret is returned when no signing secret is configured.
	ErrNoSecret = errors.New("session secret is not configured")

	// ErrMalformedToken is returned when a token cannot be parsed.
	ErrMalformedToken = errors.New("malformed session token")

	// ErrInvalidSignature is returned when the signature does not match the payload.
	ErrInvalidSignature = errors.New("invalid session token signature")

	// ErrTokenExpired is returned when a token is older than MaxAge.
	ErrTokenExpired = errors.New("session token expired")
)

type payload struct {
	IssuedAt *int64 `json:"t"`
}

// CreateToken signs a token issued at now.
func CreateToken(secret string, now time.Time) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}

	ms := now.UnixMilli()

	raw, err := json.Marshal(payload{IssuedAt: &ms})
	if err != nil {
		return "", fmt.Errorf("encoding session payload: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(raw)

	return encoded + "." + sign(secret, encoded), nil
}

// VerifyToken checks the signature and age of token against now.
func VerifyToken(secret, token string, now time.Time) error {
	return verifyToken(secret, token, now, MaxAge)
}

// IssuedAt returns the issue time recorded in a verified token.
func IssuedAt(secret, token string) (time.Time, error) {
	encoded, err := checkSignature(secret, token)
	if err != nil {
		return time.Time{}, err
	}

	ms, err := decodePayload(encoded)
	if err != nil {
		return time.Time{}, err
	}

	return time.UnixMilli(ms), nil
}

func verifyToken(secret, token string, now time.Time, maxAge time.Duration) error {
	encoded, err := checkSignature(secret, token)
	if err != nil {
		return err
	}

	ms, err := decodePayload(encoded)
	if err != nil {
		return err
	}

	if now.UnixMilli()-ms > maxAge.Milliseconds() {
		return ErrTokenExpired
	}

	return nil
}

// checkSignature returns the encoded payload when the signature matches.
func checkSignature(secret, token string) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}

	encoded, sig, ok := strings.Cut(token, ".")
	if !ok || encoded == "" || sig == "" {
		return "", ErrMalformedToken
	}

	expected := sign(secret, encoded)
	if len(expected) != len(sig) {
		return "", ErrInvalidSignature
	}

	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return "", ErrInvalidSignature
	}

	return encoded, nil
}

func decodePayload(encoded string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return 0, ErrMalformedToken
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil || p.IssuedAt == nil {
		return 0, ErrMalformedToken
	}

	return *p.IssuedAt, nil
}

func sign(secret, encoded string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(encoded))

	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
