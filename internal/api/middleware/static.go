package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gin-gonic/gin"
)

// StaticCache marks responses whose path matches one of globs as cacheable
// for maxAge. Everything else is sent with no-cache.
func StaticCache(globs []string, maxAge time.Duration) (gin.HandlerFunc, error) {
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid static cache glob %q", g)
		}
	}
	cacheable := fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds()))

	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" {
			c.Header("Cache-Control", cacheControl(globs, c.Request.URL.Path, cacheable))
		}
		c.Next()
	}, nil
}

func cacheControl(globs []string, path, cacheable string) string {
	rel := strings.TrimPrefix(path, "/")
	for _, g := range globs {
		if doublestar.MatchUnvalidated(g, rel) {
			return cacheable
		}
	}
	return "no-cache"
}
