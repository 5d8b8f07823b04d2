package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

const (
	callerHeader   = "X-Owner-Address"
	adminKeyHeader = "X-Admin-Key"
)

// CallerAddress returns the address an admin request is acting as. Whether
// that address is actually the owner is decided by the ledger.
func CallerAddress(c *gin.Context) string {
	return c.GetHeader(callerHeader)
}

// AdminAuthMiddleware requires admin requests to declare a caller address.
// When ADMIN_API_KEY is set, the request must also carry the matching key;
// that is the external verification of the caller's identity.
func AdminAuthMiddleware() gin.HandlerFunc {
	adminKey := os.Getenv("ADMIN_API_KEY")

	return func(c *gin.Context) {
		if CallerAddress(c) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": callerHeader + " header is required"})
			c.Abort()
			return
		}
		if adminKey != "" {
			provided := c.GetHeader(adminKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid admin key"})
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
