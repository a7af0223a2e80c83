package session

import (
	"time"
)

// Manager binds the token functions to one secret and lifetime.
type Manager struct {
	secret string
	maxAge time.Duration
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxAge overrides the token lifetime. Non-positive values are ignored.
func WithMaxAge(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.maxAge = d
		}
	}
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager. An empty secret yields a Manager that
// refuses to issue tokens and treats every request as non-admin.
func NewManager(secret string, opts ...Option) *Manager {
	m := &Manager{
		secret: secret,
		maxAge: MaxAge,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Configured reports whether a signing secret is present.
func (m *Manager) Configured() bool {
	return m.secret != ""
}

// MaxAge returns the token lifetime.
func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}

// Issue signs a new token for the current time.
func (m *Manager) Issue() (string, error) {
	return CreateToken(m.secret, m.now())
}

// Verify checks a token against the current time.
func (m *Manager) Verify(token string) error {
	return verifyToken(m.secret, token, m.now(), m.maxAge)
}

// IssuedAt returns the issue time of a token signed with this secret.
func (m *Manager) IssuedAt(token string) (time.Time, error) {
	return IssuedAt(m.secret, token)
}

// IsAdmin reports whether the Cookie header carries a valid token.
func (m *Manager) IsAdmin(cookieHeader string) bool {
	if !m.Configured() || cookieHeader == "" {
		return false
	}

	token := TokenFromCookieHeader(cookieHeader)
	if token == "" {
		return false
	}

	return m.Verify(token) == nil
}

// SetCookie returns the Set-Cookie header value for token.
func (m *Manager) SetCookie(token string, secure bool) string {
	return setCookie(token, m.maxAge, secure)
}
