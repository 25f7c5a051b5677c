package respond

import (
	"errors"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/telemetry"
)

// ErrorResponse is the error body clients receive.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
		fields["cause"] = errs.String()
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// Problem renders err using its apperr kind. Errors without a kind become
// SERVER_ERROR with the fallback message.
func Problem(c *gin.Context, err error, fallback string) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		Error(c, apperr.Status(apperr.KindServer), string(apperr.KindServer), fallback)
		return
	}
	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	Error(c, apperr.Status(appErr.Kind), string(appErr.Kind), appErr.Message)
}
