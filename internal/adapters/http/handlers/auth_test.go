package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/platform/session"
	"github.com/jsamuelsen/quotevault/internal/platform/telemetry"
)

const testPassword = "correct horse"

func setupAuthRouter(t *testing.T, password string, cookieSecure bool) (*gin.Engine, *prometheus.Registry) {
	t.Helper()

	service := app.NewAuthService(app.AuthServiceConfig{
		AdminPassword: password,
		Sessions:      session.NewManager(password),
		Logger:        discardLogger(),
	})

	reg := prometheus.NewRegistry()
	handler := NewAuthHandler(service, telemetry.NewDomainMetrics(reg), cookieSecure)

	router := gin.New()
	handler.RegisterAuthRoutes(router.Group("/api/v1"))

	return router, reg
}

// cookiePair returns the name=value part of a Set-Cookie header.
func cookiePair(setCookie string) string {
	pair, _, _ := strings.Cut(setCookie, ";")
	return pair
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		password       string
		body           string
		expectedStatus int
		expectedBody   string
		expectedError  string
		expectCookie   bool
	}{
		{
			name:           "correct password",
			password:       testPassword,
			body:           `{"password":"correct horse"}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"ok":true}`,
			expectCookie:   true,
		},
		{
			name:           "wrong password",
			password:       testPassword,
			body:           `{"password":"battery staple"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid password",
		},
		{
			name:           "non-string password counts as empty",
			password:       testPassword,
			body:           `{"password":12345}`,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid password",
		},
		{
			name:           "missing password",
			password:       testPassword,
			body:           `{}`,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid password",
		},
		{
			name:           "malformed body",
			password:       testPassword,
			body:           `{"password":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request",
		},
		{
			name:           "login not configured",
			password:       "",
			body:           `{"password":"anything"}`,
			expectedStatus: http.StatusServiceUnavailable,
			expectedError:  "Admin login is not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, reg := setupAuthRouter(t, tt.password, false)

			w := doRequest(router, http.MethodPost, "/api/v1/auth/login", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w).Error)
			}

			setCookie := w.Header().Get("Set-Cookie")
			if tt.expectCookie {
				assert.True(t, strings.HasPrefix(setCookie, session.CookieName+"="))
				assert.Contains(t, setCookie, "HttpOnly")
				assert.NotContains(t, setCookie, "Secure")
			} else {
				assert.Empty(t, setCookie)
			}

			count, err := testutil.GatherAndCount(reg, "quotevault_login_attempts_total")
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestAuthHandler_Login_SecureCookie(t *testing.T) {
	tests := []struct {
		name         string
		cookieSecure bool
		forwarded    string
	}{
		{name: "configured", cookieSecure: true},
		{name: "behind https proxy", forwarded: "https"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupAuthRouter(t, testPassword, tt.cookieSecure)

			var headers []string
			if tt.forwarded != "" {
				headers = []string{"X-Forwarded-Proto", tt.forwarded}
			}

			w := doRequest(router, http.MethodPost, "/api/v1/auth/login", `{"password":"correct horse"}`, headers...)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Set-Cookie"), "; Secure")
		})
	}
}

func TestAuthHandler_SessionRoundTrip(t *testing.T) {
	router, _ := setupAuthRouter(t, testPassword, false)

	w := doRequest(router, http.MethodGet, "/api/v1/auth/session", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isAdmin":false}`, w.Body.String())

	w = doRequest(router, http.MethodPost, "/api/v1/auth/login", `{"password":"correct horse"}`)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := cookiePair(w.Header().Get("Set-Cookie"))

	w = doRequest(router, http.MethodGet, "/api/v1/auth/session", "", "Cookie", cookie)
	assert.JSONEq(t, `{"isAdmin":true}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/v1/auth/session", "", "Cookie", session.CookieName+"=forged.token")
	assert.JSONEq(t, `{"isAdmin":false}`, w.Body.String())
}

func TestAuthHandler_Logout(t *testing.T) {
	router, _ := setupAuthRouter(t, testPassword, false)

	w := doRequest(router, http.MethodPost, "/api/v1/auth/logout", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}
