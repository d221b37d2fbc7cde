package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// deviceCtxKey is the Gin context key used to store the authenticated device ID.
const deviceCtxKey = "device_id"

// APIKeyMiddleware authenticates appliances by mapping X-API-Key → deviceID.
// In production this mapping would typically come from a device registry.
func APIKeyMiddleware(keys map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := strings.TrimSpace(c.GetHeader("X-API-Key"))
		deviceID, ok := keys[apiKey]
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "unauthorized"})
			return
		}
		c.Set(deviceCtxKey, deviceID)
		c.Next()
	}
}

// DeviceID returns the authenticated device ID from the request context.
func DeviceID(c *gin.Context) string {
	v, _ := c.Get(deviceCtxKey)
	s, _ := v.(string)
	return s
}
