package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// AuthHeader carries the shared key on calls from other backend services.
const AuthHeader = "X-Internal-API-Key"

// InternalAuthMiddleware guards the /internal surface with the shared key
// from INTERNAL_API_KEY. The key is read once at router setup; with no key
// configured every request fails with 500 rather than letting the surface
// stand open.
func InternalAuthMiddleware() gin.HandlerFunc {
	expected := []byte(os.Getenv("INTERNAL_API_KEY"))
	if len(expected) == 0 {
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "server misconfigured: INTERNAL_API_KEY not set",
			})
		}
	}

	return func(c *gin.Context) {
		presented := []byte(c.GetHeader(AuthHeader))
		// Constant-time comparison; the presented key must not leak length
		// or prefix information through response timing.
		if subtle.ConstantTimeCompare(presented, expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
