package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// TokenResolver turns a bearer token into a principal for one of the accepted roles.
type TokenResolver interface {
	Resolve(token string, accepted ...models.Role) (*auth.Principal, error)
}

// AccountLookup loads the account backing a principal.
type AccountLookup interface {
	GetAccount(ctx context.Context, role models.Role, id string) (*models.Account, error)
}

// Authenticate extracts the Bearer token and resolves it against the
// accepted roles, in order. The resolved principal is stored in the context.
func Authenticate(resolver TokenResolver, accepted ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abort(c, http.StatusUnauthorized, models.ErrUnauthorized, "Not authorized, token missing")
			return
		}

		principal, err := resolver.Resolve(token, accepted...)
		if err != nil {
			log.WithField("error", err.Error()).Debug("Token rejected")
			abort(c, http.StatusUnauthorized, models.ErrUnauthorized, "Invalid token")
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by Authenticate, if any.
func PrincipalFrom(c *gin.Context) (*auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*auth.Principal)
	return p, ok && p != nil
}

// RequireAccount confirms that the account behind the principal still
// exists and refreshes the username and number from it. Activity is not
// re-checked here; it is enforced at login.
func RequireAccount(accounts AccountLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, models.ErrUnauthorized, "Not authorized, token missing")
			return
		}

		account, err := accounts.GetAccount(c.Request.Context(), p.Role, p.ID)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Kind == models.KindNotFound {
				abort(c, http.StatusUnauthorized, models.ErrUnauthorized, p.Role.Label()+" not found")
				return
			}
			log.WithField("error", err.Error()).Error("Failed to load principal account")
			abort(c, http.StatusInternalServerError, models.ErrInternalServer, "Something went wrong")
			return
		}

		p.Username = account.Username
		p.Number = account.Number
		c.Next()
	}
}

func bearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.NewErrorResponse(code, message))
}
