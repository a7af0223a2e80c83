package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotevault/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotevault/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests when no timeout is configured.
const DefaultRequestTimeout = 30 * time.Second

// APIPrefixes are the mount points of the JSON API. /api is kept as an
// alias of /api/v1 for older clients.
var APIPrefixes = []string{"/api/v1", "/api"}

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// ServiceName names the spans created by the tracing middleware.
	ServiceName string

	HealthHandler *handlers.HealthHandler
	QuoteHandler  *handlers.QuoteHandler
	TagHandler    *handlers.TagHandler
	AuthHandler   *handlers.AuthHandler

	// Admin verifies the session cookie on mutating quote routes.
	Admin middleware.AdminChecker

	// Timeout bounds each API request. Zero disables the deadline.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing, then metrics and the X-Trace-ID header
//  5. Logging - request logging (skips /-/ endpoints)
//  6. Timeout - request deadline on the API groups only
//
// Route groups:
//   - /-/ (internal): live, ready, build and metrics; no timeout for probes
//   - /api/v1/ and /api/: quotes, tags and the admin session endpoints
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
		middleware.Logging(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	for _, prefix := range APIPrefixes {
		api := engine.Group(prefix)
		api.Use(middleware.Timeout(cfg.Timeout))

		setupAPIRoutes(api, cfg)
	}
}

// setupAPIRoutes registers the business routes on one API group.
func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(rg, middleware.RequireAdmin(cfg.Admin))
	}

	if cfg.TagHandler != nil {
		cfg.TagHandler.RegisterTagRoutes(rg)
	}

	if cfg.AuthHandler != nil {
		cfg.AuthHandler.RegisterAuthRoutes(rg)
	}
}
