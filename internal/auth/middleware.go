// Package auth provides API-key authentication for the JSON API.
package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderName is the request header carrying the API key. Header lookup
// is case-insensitive, so x-api-key variants work too.
const HeaderName = "X-API-Key"

// APIKeyMiddleware rejects requests that do not carry the configured key
// in the X-API-Key header. An empty configured key disables the check.
// The comparison is constant-time.
func APIKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		provided := c.GetHeader(HeaderName)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
