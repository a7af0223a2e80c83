// Package middleware provides HTTP middleware for the Gin framework.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quotevault/internal/platform/logging"
)

const (
	// HeaderRequestID is the header name for request ID.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID groups the requests of one browser action or
	// script run. It defaults to the request ID of the first request.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin context key for the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin context key for the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// maxIDLength bounds client-supplied IDs so they cannot bloat every log line.
const maxIDLength = 128

type contextKey string

const (
	ctxKeyRequestID     contextKey = "request_id"
	ctxKeyCorrelationID contextKey = "correlation_id"
)

// RequestID returns middleware that extracts or generates a request ID.
// The ID is echoed in the response, stored on the gin and request contexts
// and attached to the context logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := headerID(c, HeaderRequestID)

		c.Set(ContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)

		ctx := ContextWithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(logging.WithRequestID(ctx, id))

		c.Next()
	}
}

// CorrelationID returns middleware that propagates the correlation ID.
// Without an incoming header the request ID is reused, so it must run
// after RequestID.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderCorrelationID)
		if id == "" || len(id) > maxIDLength {
			id = GetRequestID(c)
		}

		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ContextKeyCorrelationID, id)
		c.Header(HeaderCorrelationID, id)

		ctx := ContextWithCorrelationID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(logging.WithCorrelationID(ctx, id))

		c.Next()
	}
}

// GetRequestID extracts the request ID from the gin.Context.
// Returns empty string if not set.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID extracts the correlation ID from the gin.Context.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

// RequestIDFromContext extracts the request ID from a context.Context,
// for code below the HTTP layer. Returns "" if unset or ctx is nil.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(ctxKeyRequestID).(string)

	return id
}

// CorrelationIDFromContext extracts the correlation ID from a context.Context.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(ctxKeyCorrelationID).(string)

	return id
}

// ContextWithRequestID stores a request ID in the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// ContextWithCorrelationID stores a correlation ID in the context.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationID, id)
}

// headerID returns the header value, or a fresh UUID when it is missing
// or implausibly long.
func headerID(c *gin.Context, header string) string {
	id := c.GetHeader(header)
	if id == "" || len(id) > maxIDLength {
		return uuid.NewString()
	}

	return id
}
