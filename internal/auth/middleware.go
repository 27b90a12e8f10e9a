package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"classtrack/internal/api"
)

const claimsKey = "auth.claims"

// ClaimsFrom returns the verified claims stored by Require, if any.
func ClaimsFrom(c *gin.Context) (Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}

// Require enforces a valid bearer token and stores its claims in the
// request context.
func Require(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			api.Abort(c, api.Unauthorized("Token is missing"))
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := m.Verify(tokenStr)
		if err != nil {
			if errors.Is(err, ErrExpired) {
				api.Abort(c, api.Unauthorized("Token has expired"))
				return
			}
			api.Abort(c, api.Unauthorized("Invalid token"))
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireInstructor enforces the instructor role on top of Require.
func RequireInstructor() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			api.Abort(c, api.Unauthorized("Token is missing"))
			return
		}
		if claims.UserType != RoleInstructor {
			api.Abort(c, api.Forbidden("Instructor access required"))
			return
		}
		c.Next()
	}
}

// RequireOwnership enforces that the named resource belongs to the
// authenticated instructor. The resource id is taken from the route
// parameter named param.
func RequireOwnership(registry *OwnershipRegistry, resourceType, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			api.Abort(c, api.Unauthorized("Token is missing"))
			return
		}
		resourceID := c.Param(param)
		if resourceID == "" {
			api.Abort(c, api.ValidationFailed("Resource ID not provided", nil))
			return
		}
		owns, err := registry.Check(c.Request.Context(), resourceType, claims.UserID, resourceID)
		if err != nil {
			api.Abort(c, err)
			return
		}
		if !owns {
			api.Abort(c, api.Forbidden("You don't own this "+resourceType))
			return
		}
		c.Next()
	}
}
