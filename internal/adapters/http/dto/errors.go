// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
)

// ErrorResponse is the standard error envelope for all error responses.
// Error carries the human-readable message; the remaining fields are additive.
type ErrorResponse struct {
	// Error is a human-readable error message.
	Error string `json:"error"`

	// Code is a machine-readable error code (e.g., "NOT_FOUND", "VALIDATION_ERROR").
	Code string `json:"code"`

	// Details provides additional context about the error.
	// For validation errors, this contains field-level error messages.
	Details map[string]string `json:"details,omitempty"`

	TraceID string `json:"traceId,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	// ErrorCodeNotFound indicates the requested resource was not found.
	ErrorCodeNotFound = "NOT_FOUND"

	// ErrorCodeValidation indicates request validation failed.
	ErrorCodeValidation = "VALIDATION_ERROR"

	// ErrorCodeUnauthorized indicates an admin session or credential is required.
	ErrorCodeUnauthorized = "UNAUTHORIZED"

	// ErrorCodeNotConfigured indicates a feature is disabled by missing configuration.
	ErrorCodeNotConfigured = "NOT_CONFIGURED"

	// ErrorCodeUnavailable indicates a dependency is unavailable.
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"

	// ErrorCodeInternal indicates an internal server error.
	ErrorCodeInternal = "INTERNAL_ERROR"

	// ErrorCodeTimeout indicates the request timed out.
	ErrorCodeTimeout = "TIMEOUT"

	// ErrorCodeBadRequest indicates the request was malformed.
	ErrorCodeBadRequest = "BAD_REQUEST"
)

// Messages used where the client contract fixes the wording.
const (
	MessageValidationFailed = "Validation failed"
	MessageInvalidQuery     = "Invalid query"
	MessageInvalidRequest   = "Invalid request"
	MessageUnauthorized     = "Unauthorized"
	MessageUnavailable      = "service temporarily unavailable"
	MessageInternal         = "an internal error occurred"
	MessageTimeout          = "request timeout exceeded"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: message,
		Code:  code,
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeNotConfigured, ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// MapError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsNotFound(err):
		msg := "Not found"

		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) && notFound.Entity != "" {
			msg = capitalize(notFound.Entity) + " not found"
		}

		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, msg)

	case domain.IsValidation(err):
		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			return http.StatusBadRequest, NewErrorResponse(ErrorCodeValidation, MessageValidationFailed)
		}

		// Field-less validation errors carry a complete sentence for the client.
		if validationErr.Field == "" {
			return http.StatusBadRequest, NewErrorResponse(ErrorCodeValidation, validationErr.Message)
		}

		return http.StatusBadRequest, NewErrorResponseWithDetails(
			ErrorCodeValidation,
			MessageValidationFailed,
			map[string]string{validationErr.Field: validationErr.Message},
		)

	case domain.IsUnauthorized(err):
		return http.StatusUnauthorized, NewErrorResponse(ErrorCodeUnauthorized, err.Error())

	case domain.IsNotConfigured(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeNotConfigured, err.Error())

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, MessageUnavailable)

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewErrorResponse(ErrorCodeTimeout, MessageTimeout)

	default:
		// Unknown errors get a generic message to avoid leaking internals
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, MessageInternal)
	}
}

// HandleError maps err onto the error envelope and writes it to the response.
// Server-side failures are logged with their full detail.
func HandleError(c *gin.Context, err error) {
	status, resp := prepare(c, err)
	c.JSON(status, resp)
}

// AbortWithError aborts the request chain and writes an error response.
// Use this in middleware when you want to stop further processing.
func AbortWithError(c *gin.Context, err error) {
	status, resp := prepare(c, err)
	c.AbortWithStatusJSON(status, resp)
}

// RespondWithCode writes an error response with a specific error code.
// Use this for adapter-level errors (malformed bodies, bad query strings)
// that don't originate from domain errors.
func RespondWithCode(c *gin.Context, code, message string) {
	c.JSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// RespondWithValidationErrors writes a 400 response with field-level validation errors.
func RespondWithValidationErrors(c *gin.Context, message string, fieldErrors map[string]string) {
	resp := NewErrorResponseWithDetails(ErrorCodeValidation, message, fieldErrors)
	c.JSON(http.StatusBadRequest, resp.WithTraceID(GetTraceID(c)))
}

// GetTraceID returns the trace identifier for the current request: an ID
// stored on the gin context, the active OpenTelemetry trace, or the
// X-Request-ID header, in that order. It returns "" when none is present.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		id, _ := v.(string)
		return id
	}

	if c.Request == nil {
		return ""
	}

	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	return c.GetHeader("X-Request-ID")
}

func prepare(c *gin.Context, err error) (int, *ErrorResponse) {
	status, resp := MapError(err)
	if resp == nil {
		resp = NewErrorResponse(ErrorCodeInternal, MessageInternal)
		status = http.StatusInternalServerError
	}

	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError && resp.Code != ErrorCodeNotConfigured {
		logger := logging.FromContext(requestContext(c))
		logger.Error("request failed",
			"status", status,
			"error", err,
			"trace_id", resp.TraceID,
		)
	}

	return status, resp
}

func requestContext(c *gin.Context) context.Context {
	if c.Request == nil {
		return context.Background()
	}

	return c.Request.Context()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
