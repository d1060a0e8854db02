package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tomiwa-code/recipe-share-api/internal/service"
)

// Context key under which the verified identity is stored.
const IdentityKey = "identity"

// TokenValidator is the capability the middleware needs from the auth service.
type TokenValidator interface {
	ValidateToken(token string) (*service.TokenClaims, error)
}

// Auth validates the bearer token and stores the caller identity on the
// request context. Handlers read it back with CallerIdentity.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(IdentityKey, service.Identity{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// CallerIdentity returns the identity stored by Auth, if any.
func CallerIdentity(c *gin.Context) (service.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return service.Identity{}, false
	}
	id, ok := v.(service.Identity)
	return id, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}
