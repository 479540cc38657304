// Package auth reads the identity the upstream authorizer attached to the
// request. Token verification and JWT issuance live outside this service.
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Roles the authorizer hands us.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Headers set by the upstream authorizer.
const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
)

const identityKey = "auth.identity"

// Identity is the caller as asserted upstream.
type Identity struct {
	UserID string
	Role   string
}

// Admin reports whether the identity carries the admin role.
func (id Identity) Admin() bool { return id.Role == RoleAdmin }

// Middleware requires a signed-in caller and stashes the identity on the
// request context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := Identity{
			UserID: c.GetHeader(headerUserID),
			Role:   c.GetHeader(headerUserRole),
		}
		if id.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access denied"})
			return
		}
		if id.Role == "" {
			id.Role = RoleMember
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Must run after Middleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := FromContext(c)
		for _, role := range roles {
			if id.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not allowed to make this request."})
	}
}

// FromContext returns the identity stored by Middleware; zero value when the
// route skipped it.
func FromContext(c *gin.Context) Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}
	}
	id, _ := v.(Identity)
	return id
}
