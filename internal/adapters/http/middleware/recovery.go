package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
)

// Recovery returns middleware that turns a panic into a logged 500 with the
// standard error envelope. It must be first in the chain.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			ctx := c.Request.Context()
			logging.FromContextOr(ctx, logger).ErrorContext(ctx, "panic recovered",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			resp := dto.NewErrorResponse(dto.ErrorCodeInternal, dto.MessageInternal)
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp.WithTraceID(dto.GetTraceID(c)))
		}()

		c.Next()
	}
}
