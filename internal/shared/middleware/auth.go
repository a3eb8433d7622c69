package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"library-api/internal/shared/permission"
	"library-api/internal/shared/response"
	"library-api/pkg/jwt"
)

// CallerKey is the gin context key holding the resolved permission.Caller.
const CallerKey = "caller"

// Caller resolves the request's caller from the Authorization header.
// No header means an anonymous caller; the request continues and the
// permission gate decides per route. A header that is present but invalid is
// rejected immediately with 401.
func Caller(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(CallerKey, permission.Anonymous())
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(CallerKey, permission.Caller{
			State: permission.StateAuthenticated,
			Role:  permission.Role(claims.Role),
		})
		c.Next()
	}
}

// CallerFrom extracts the resolved caller, defaulting to anonymous when the
// middleware did not run (tests hitting handlers directly).
func CallerFrom(c *gin.Context) permission.Caller {
	v, ok := c.Get(CallerKey)
	if !ok {
		return permission.Anonymous()
	}
	caller, ok := v.(permission.Caller)
	if !ok {
		return permission.Anonymous()
	}
	return caller
}
