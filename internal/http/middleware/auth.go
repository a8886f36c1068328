package middleware

import (
	"net/http"
	"strings"

	"busticket/internal/domain"
	"busticket/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxUserID = "userID"
	ctxRole   = "userRole"
	ctxToken  = "token"
)

// RequireAuth validates the Bearer token and exposes its subject to handlers.
func RequireAuth(tokens services.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := tokens.Parse(c.Request.Context(), tokenString)
		if err != nil {
			if !domain.IsUnauthorized(err) {
				zap.L().Error("token check failed", zap.String("request_id", GetRequestID(c)), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "internal error",
					"code":       "internal_error",
					"request_id": GetRequestID(c),
				})
				return
			}
			abortUnauthorized(c, err.Error())
			return
		}

		c.Set(ctxUserID, claims.UserID())
		c.Set(ctxRole, claims.Role)
		c.Set(ctxToken, tokenString)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      msg,
		"code":       "unauthorized",
		"request_id": GetRequestID(c),
	})
}

// UserID returns the authenticated user id, 0 when the request is anonymous.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}

func Role(c *gin.Context) string {
	return c.GetString(ctxRole)
}

func Token(c *gin.Context) string {
	return c.GetString(ctxToken)
}
