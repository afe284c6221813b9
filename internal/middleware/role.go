package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole checks that the authenticated principal has the required role.
func RequireRole(requiredRole models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, models.ErrUnauthorized, "Not authorized, token missing")
			return
		}

		if p.Role != requiredRole {
			message := "Access denied: " + requiredRole.Label() + "s only"
			abort(c, http.StatusForbidden, models.ErrForbidden, message)
			return
		}

		c.Next()
	}
}
