package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
	"github.com/jsamuelsen/quotevault/internal/platform/session"
)

// AuthService handles the single shared admin credential.
type AuthService struct {
	adminPassword string
	sessions      *session.Manager
	logger        *slog.Logger
}

// AuthServiceConfig contains configuration for the auth service.
type AuthServiceConfig struct {
	// AdminPassword enables login when set.
	AdminPassword string

	// Sessions signs and verifies session tokens.
	Sessions *session.Manager

	Logger *slog.Logger
}

// NewAuthService creates an auth service.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.Sessions == nil {
		panic("app: AuthServiceConfig.Sessions is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		adminPassword: cfg.AdminPassword,
		sessions:      cfg.Sessions,
		logger:        logger.With(slog.String("component", "app.AuthService")),
	}
}

// Login checks password against the admin password and returns a fresh
// session token on success.
func (s *AuthService) Login(ctx context.Context, password string) (string, error) {
	logger := logging.FromContextOr(ctx, s.logger)

	if s.adminPassword == "" {
		return "", domain.NewNotConfiguredError("auth.admin_password", "Admin login is not configured")
	}

	if !session.PasswordMatches(password, s.adminPassword) {
		logger.WarnContext(ctx, "admin login rejected")
		return "", domain.NewUnauthorizedError("Invalid password")
	}

	token, err := s.sessions.Issue()
	if err != nil {
		return "", fmt.Errorf("issuing session token: %w", err)
	}

	logger.InfoContext(ctx, "admin logged in")

	return token, nil
}

// IsAdmin reports whether the raw Cookie header carries a valid session.
func (s *AuthService) IsAdmin(cookieHeader string) bool {
	return s.sessions.IsAdmin(cookieHeader)
}

// SetCookie returns the Set-Cookie value for a freshly issued token.
func (s *AuthService) SetCookie(token string, secure bool) string {
	return s.sessions.SetCookie(token, secure)
}

// ClearCookie returns the Set-Cookie value that ends the session.
func (s *AuthService) ClearCookie() string {
	return session.ClearCookie()
}
