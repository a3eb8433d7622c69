package middleware

import (
	"github.com/gin-gonic/gin"

	"library-api/internal/shared/permission"
	"library-api/internal/shared/response"
	"library-api/pkg/logger"
)

// Permit enforces the capability on a route. The gate decision runs before
// any handler logic, so a denied write never reaches validation or the
// record store.
func Permit(gate permission.Gate, cap permission.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)

		decision := gate.Decide(cap, caller)
		if decision == permission.Allow {
			c.Next()
			return
		}

		logger.Warn("request denied", map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
			"capability": string(cap),
			"state":      string(caller.State),
			"role":       string(caller.Role),
			"decision":   decision.String(),
		})

		switch decision {
		case permission.DenyUnauthenticated:
			response.Unauthorized(c, "authentication required")
		default:
			response.Forbidden(c, "insufficient permissions")
		}
		c.Abort()
	}
}
