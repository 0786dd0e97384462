package middleware

import (
	"net/http"
	"strings"

	"github.com/Negibkaya/Mias-sema/internal/delivery/http/response"
	"github.com/Negibkaya/Mias-sema/internal/domain"
	"github.com/Negibkaya/Mias-sema/pkg/auth"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer token and loads the user fresh from
// the database, so deleted accounts lose access immediately even while
// their token is still unexpired.
func AuthMiddleware(jwtSecret string, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header required", nil)
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := auth.ParseAccessToken(tokenString, jwtSecret)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		user, err := authUC.GetCurrentUser(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "User not found", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyTelegramID), user.TelegramID)

		c.Next()
	}
}

// CurrentUserID reads the authenticated user's id set by AuthMiddleware.
func CurrentUserID(c *gin.Context) int64 {
	return c.GetInt64(string(domain.KeyUserID))
}
