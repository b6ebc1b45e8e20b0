package middleware

import "github.com/gin-gonic/gin"

// Named Cache-Control profiles.
const (
	CacheAny60 = "public, max-age=60"
	CacheNone  = "no-store"
)

// CacheProfile sets Cache-Control before the handler runs, so error responses carry it too.
func CacheProfile(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
