package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotevault/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/platform/telemetry"
)

// AuthHandler serves admin login, logout and session checks.
type AuthHandler struct {
	service      *app.AuthService
	metrics      *telemetry.DomainMetrics
	cookieSecure bool
}

// NewAuthHandler creates an auth handler. With cookieSecure set the session
// cookie always carries the Secure attribute; otherwise only over HTTPS.
func NewAuthHandler(service *app.AuthService, metrics *telemetry.DomainMetrics, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		service:      service,
		metrics:      metrics,
		cookieSecure: cookieSecure,
	}
}

// Login handles POST /auth/login.
//
// @Summary Admin login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Admin password"
// @Success 200 {object} dto.OKResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.LoginAttempt(telemetry.LoginBadRequest)
		dto.RespondWithCode(c, dto.ErrorCodeBadRequest, dto.MessageInvalidRequest)

		return
	}

	token, err := h.service.Login(c.Request.Context(), req.PasswordString())
	if err != nil {
		switch {
		case domain.IsNotConfigured(err):
			h.metrics.LoginAttempt(telemetry.LoginNotConfigured)
		case domain.IsUnauthorized(err):
			h.metrics.LoginAttempt(telemetry.LoginRejected)
		}

		dto.HandleError(c, err)

		return
	}

	h.metrics.LoginAttempt(telemetry.LoginSuccess)

	secure := h.cookieSecure || middleware.IsSecureRequest(c)
	c.Header("Set-Cookie", h.service.SetCookie(token, secure))
	c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Logout handles POST /auth/logout. It always succeeds.
//
// @Summary Admin logout
// @Tags auth
// @Produce json
// @Success 200 {object} dto.OKResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.Header("Set-Cookie", h.service.ClearCookie())
	c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Session handles GET /auth/session.
//
// @Summary Check the admin session
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Router /api/v1/auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SessionResponse{IsAdmin: h.service.IsAdmin(c.GetHeader("Cookie"))})
}

// RegisterAuthRoutes registers auth routes on the given router group.
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.GET("/session", h.Session)
}
