package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotevault/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/quotevault/telemetry"

	// HeaderTraceID exposes the trace ID so a client can quote it in a bug report.
	HeaderTraceID = "X-Trace-ID"
)

// Metrics holds HTTP server metrics.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewMetrics creates HTTP server metrics on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		activeRequests:  activeRequests,
	}, nil
}

// Middleware returns Gin middleware recording HTTP metrics. It runs after
// TracingMiddleware: the active trace ID is echoed in X-Trace-ID and added
// to the context logger.
func Middleware() gin.HandlerFunc {
	// Instrument creation only fails on invalid names; the middleware
	// still serves requests without metrics in that case.
	metrics, err := NewMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Header(HeaderTraceID, traceID)
			c.Request = c.Request.WithContext(logging.WithTraceID(ctx, traceID))
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		if metrics == nil {
			c.Next()
			return
		}

		active := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		)

		metrics.activeRequests.Add(ctx, 1, active)
		defer metrics.activeRequests.Add(ctx, -1, active)

		c.Next()

		done := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", c.Writer.Status()),
		)

		metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), done)
		metrics.requestTotal.Add(ctx, 1, done)
	}
}

// TracingMiddleware returns the otelgin tracing middleware.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}
