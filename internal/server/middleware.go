package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/perfectcherry/cherry-server/internal/auth"
	"github.com/perfectcherry/cherry-server/internal/handler"
	"github.com/perfectcherry/cherry-server/internal/logger"
)

// Context keys set by the auth middleware.
const (
	ContextUserIDKey = "auth_user_id"
	ContextRoleKey   = "auth_role"
)

// AuthMiddleware verifies the Bearer token and stashes the caller's id and
// role. The services behind it assume the caller is already authorized.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.Response{Message: "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.Response{Message: "Authorization header format must be Bearer {token}"})
			return
		}

		token, err := auth.VerifyJWT(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.Response{Message: "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.Response{Message: "Invalid token claims"})
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.Response{Message: "Invalid user ID in token claims"})
			return
		}
		role, _ := claims["role"].(string)

		c.Set(ContextUserIDKey, uint64(userIDFloat))
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// RequireRole rejects callers whose token does not carry the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, _ := c.Get(ContextRoleKey)
		if got != role {
			c.AbortWithStatusJSON(http.StatusForbidden, handler.Response{Message: "Insufficient role"})
			return
		}
		c.Next()
	}
}

// Recovery turns panics into the 500 envelope instead of a dropped
// connection. Anything reaching here is a bug, so the value is logged.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", "err", r, "path", c.Request.URL.Path)
				if !c.Writer.Written() {
					c.JSON(http.StatusInternalServerError, handler.Response{Message: "internal server error"})
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
