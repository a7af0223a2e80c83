package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotevault/internal/adapters/store"
	"github.com/jsamuelsen/quotevault/internal/platform/session"
)

// setupEnv runs the test in an empty directory with a throwaway SQLite
// database and the given admin password.
func setupEnv(t *testing.T, password string) {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv("APP_ENVIRONMENT", "test")
	t.Setenv("ADMIN_PASSWORD", password)
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", filepath.Join(dir, "quotes.db"))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), err
}

func TestTokenRoundTrip(t *testing.T) {
	setupEnv(t, "hunter2")

	out, err := execute(t, "token")
	require.NoError(t, err)

	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)
	assert.NoError(t, session.NewManager("hunter2").Verify(token))

	out, err = execute(t, "verify-token", token)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "valid: issued "))
}

func TestTokenCookie(t *testing.T) {
	setupEnv(t, "hunter2")

	out, err := execute(t, "token", "--cookie", "--secure")
	require.NoError(t, err)

	header := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(header, session.CookieName+"="))
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "; Secure")

	// The printed header can be fed straight back.
	pair, _, _ := strings.Cut(header, ";")
	_, err = execute(t, "verify-token", pair)
	assert.NoError(t, err)
}

func TestTokenWithoutSecret(t *testing.T) {
	setupEnv(t, "")

	_, err := execute(t, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no signing secret")
}

func TestTokenFallsBackToSessionSecret(t *testing.T) {
	setupEnv(t, "")
	t.Setenv("SESSION_SECRET", "offline-secret")

	out, err := execute(t, "token")
	require.NoError(t, err)
	assert.NoError(t, session.NewManager("offline-secret").Verify(strings.TrimSpace(out)))
}

func TestVerifyTokenRejects(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr string
	}{
		{name: "garbage", token: "not-a-token", wantErr: "token rejected"},
		{name: "wrong secret", token: mustToken(t, "other-secret"), wantErr: "token rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupEnv(t, "hunter2")

			_, err := execute(t, "verify-token", tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestVerifyTokenRequiresArgument(t *testing.T) {
	setupEnv(t, "hunter2")

	_, err := execute(t, "verify-token")
	assert.Error(t, err)
}

func TestMigrateAndSeed(t *testing.T) {
	setupEnv(t, "")

	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date.")

	out, err = execute(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("Seeded %d quotes.", len(store.SampleQuotes)))

	out, err = execute(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing seeded")
}

func mustToken(t *testing.T, secret string) string {
	t.Helper()

	token, err := session.NewManager(secret).Issue()
	require.NoError(t, err)

	return token
}
