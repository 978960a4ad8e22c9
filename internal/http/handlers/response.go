// Package handlers implements the ops API endpoints. Responses follow a
// uniform shape: plain JSON bodies on success and a structured error
// envelope with a stable machine-readable code on failure.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timaholls/tg-info-S3Disk/internal/http/middleware"
)

// Stable error codes returned in the envelope.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// ErrorResponse is the error envelope returned by all endpoints.
type ErrorResponse struct {
	// RequestID correlates server logs with client errors.
	RequestID string `json:"request_id,omitempty"`
	// Code is a stable, machine-readable error code.
	Code string `json:"code"`
	// Message is a human-readable description safe to show to users.
	Message string `json:"message"`
}

// fail aborts the request with a structured error. Server errors (>=500)
// are logged with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail for use from the router.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
