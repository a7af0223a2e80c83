package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotevault/internal/domain"
)

// ContextKeyAdmin is set to true on requests that passed RequireAdmin.
const ContextKeyAdmin = "is_admin"

// AdminChecker reports whether a raw Cookie header carries a valid admin session.
type AdminChecker interface {
	IsAdmin(cookieHeader string) bool
}

// RequireAdmin rejects requests without a valid admin session cookie with
// 401 before the handler runs, so no body is parsed and no lookup happens.
func RequireAdmin(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !checker.IsAdmin(c.GetHeader("Cookie")) {
			dto.AbortWithError(c, domain.NewUnauthorizedError(dto.MessageUnauthorized))
			return
		}

		c.Set(ContextKeyAdmin, true)
		c.Next()
	}
}

// IsAdmin reports whether RequireAdmin admitted this request.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ContextKeyAdmin)
}

// IsSecureRequest reports whether the client reached us over TLS, either
// directly or through a proxy that sets X-Forwarded-Proto.
func IsSecureRequest(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}

	proto := c.GetHeader("X-Forwarded-Proto")
	if first, _, found := strings.Cut(proto, ","); found {
		proto = first
	}

	return strings.EqualFold(strings.TrimSpace(proto), "https")
}
