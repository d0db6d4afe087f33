package middleware

import (
	"log"
	"net/http"
	"strings"

	"blog/services"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Authenticator resolves a bearer token to the caller's identity.
type Authenticator interface {
	Authenticate(token string) (services.Identity, error)
}

// JWTAuthMiddleware rejects requests without a valid bearer token and
// stores the caller's Identity in the gin context.
func JWTAuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip middleware for OPTIONS requests (CORS preflight)
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "no token provided, access denied"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid authorization header, format should be: Bearer <token>"})
			return
		}

		identity, err := authn.Authenticate(parts[1])
		if err != nil {
			log.Printf("JWT validation error: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token, access denied"})
			return
		}

		c.Set(identityKey, identity)
		c.Set("userId", identity.ID.Hex())
		c.Next()
	}
}

// AdminOnly must run after JWTAuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok || !identity.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "not allowed, only admin"})
			return
		}
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (services.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return services.Identity{}, false
	}
	identity, ok := v.(services.Identity)
	return identity, ok
}
