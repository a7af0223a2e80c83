//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	httpadapter "github.com/jsamuelsen/quotevault/internal/adapters/http"
	"github.com/jsamuelsen/quotevault/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotevault/internal/adapters/store"
	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/platform/session"
	"github.com/jsamuelsen/quotevault/internal/platform/telemetry"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testApp is the full service wired in-process over an in-memory SQLite
// database and served by httptest.
type testApp struct {
	server *httptest.Server
	db     *gorm.DB
	client *http.Client
}

// newTestApp builds a fresh application. An empty password disables login.
func newTestApp(password string) (*testApp, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := store.Open(store.Config{DSN: ":memory:", LogLevel: "silent"}, logger)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(db); err != nil {
		return nil, err
	}

	quoteStore := store.NewQuoteStore(db)

	registry := ports.NewHealthRegistry()
	if err := registry.Register(store.NewPinger(db)); err != nil {
		return nil, err
	}

	quotes := app.NewQuoteService(app.QuoteServiceConfig{Repository: quoteStore, Logger: logger})
	auth := app.NewAuthService(app.AuthServiceConfig{
		AdminPassword: password,
		Sessions:      session.NewManager(password),
		Logger:        logger,
	})

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewDomainMetrics(reg)

	engine := gin.New()
	engine.ContextWithFallback = true

	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:        logger,
		ServiceName:   "quotevault-integration",
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "now"), reg),
		QuoteHandler:  handlers.NewQuoteHandler(quotes, metrics),
		TagHandler:    handlers.NewTagHandler(quotes),
		AuthHandler:   handlers.NewAuthHandler(auth, metrics, false),
		Admin:         auth,
		Timeout:       5 * time.Second,
	})

	return &testApp{
		server: httptest.NewServer(engine),
		db:     db,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Close stops the server and drops the database.
func (a *testApp) Close() {
	if a == nil {
		return
	}

	a.server.Close()
	_ = store.Close(a.db)
}

// do sends a request and returns the status, body and response headers.
func (a *testApp) do(method, path, body, cookie string) (int, []byte, http.Header, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.server.URL+path, reader)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, data, resp.Header, nil
}

// login posts the password and returns the name=value session cookie.
func (a *testApp) login(password string) (string, error) {
	status, body, header, err := a.do(http.MethodPost, "/api/v1/auth/login",
		fmt.Sprintf(`{"password":%q}`, password), "")
	if err != nil {
		return "", err
	}

	if status != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", status, body)
	}

	pair, _, _ := strings.Cut(header.Get("Set-Cookie"), ";")

	return pair, nil
}
