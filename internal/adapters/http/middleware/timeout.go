package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
)

// Timeout returns middleware that puts a deadline on the request context.
// Handlers run on the request goroutine; store calls observe the deadline
// and fail with context.DeadlineExceeded, which the error mapping renders
// as 504. If a handler ignored the deadline and wrote nothing, the
// timeout response is written here. A non-positive timeout disables it.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}

		logging.FromContext(ctx).WarnContext(ctx, "request timeout",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Duration("timeout", timeout),
		)

		if !c.Writer.Written() {
			dto.AbortWithError(c, context.DeadlineExceeded)
		}
	}
}
