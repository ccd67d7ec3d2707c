package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ETagKey = "dataset_etag"

// DatasetETag tags responses with the loaded snapshot's fingerprint and
// answers 304 when If-None-Match already names it. The snapshot is
// immutable for the life of the process.
func DatasetETag(fingerprint string) gin.HandlerFunc {
	etag := `"` + fingerprint + `"`
	return func(c *gin.Context) {
		if fingerprint == "" {
			c.Next()
			return
		}
		c.Header("ETag", etag)
		c.Set(ETagKey, etag)
		if matchesETag(c.GetHeader("If-None-Match"), etag) {
			c.AbortWithStatus(http.StatusNotModified)
			return
		}
		c.Next()
	}
}

// matchesETag reports whether an If-None-Match header lists etag or "*"
func matchesETag(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}

// GetETag retrieves the ETag set by DatasetETag
func GetETag(c *gin.Context) (string, bool) {
	etag, exists := c.Get(ETagKey)
	if !exists {
		return "", false
	}
	return etag.(string), true
}
