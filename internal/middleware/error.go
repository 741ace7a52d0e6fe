package middleware

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	apperrors "ledgerbot/internal/errors"
	"ledgerbot/internal/logger"
)

// abortWithError stops the chain with the JSON error body used across the API.
// Errors that are not AppErrors are logged and reported as internal errors.
func abortWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		appErr = apperrors.ErrInternalServer
	}
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

// Recovery returns a Gin middleware that turns a panic in a later handler into
// an INTERNAL_ERROR response and logs the panic value with the request ID.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Get().Errorw("panic recovered",
				"request_id", c.GetString(requestIDKey),
				"panic", fmt.Sprint(rec),
				"path", c.Request.URL.Path,
			)
			abortWithError(c, apperrors.ErrInternalServer)
		}()
		c.Next()
	}
}
