package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Authorizer is a local interface so this package does not depend on the
// rbac package directly; anything with Enforce(role, resource, action) fits.
type Authorizer interface {
	Enforce(role, resource, action string) (bool, error)
}

func RBACAuthorize(service Authorizer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		allowed, err := service.Enforce(role, resource, action)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "You do not have permission to access this resource",
				"required": resource + ":" + action,
			})
			return
		}
		c.Next()
	}
}
