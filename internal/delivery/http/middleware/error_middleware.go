package middleware

import (
	"errors"
	"net/http"

	"github.com/Negibkaya/Mias-sema/internal/delivery/http/response"
	"github.com/Negibkaya/Mias-sema/pkg/apperror"
	"github.com/Negibkaya/Mias-sema/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders errors pushed onto the gin context. AppErrors keep
// their status and message; anything else is logged and hidden behind a
// generic 500 so internals never leak to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code == http.StatusInternalServerError && appErr.Err != nil {
				logger.Log.Error("internal error", "path", c.FullPath(), "error", appErr.Err)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		logger.Log.Error("unhandled error", "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
