package utils

import (
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// FileCache sets cache-control on the routes serving stored files
type FileCache struct {
	MaxAge time.Duration // zero sends no-cache
}

func (fc FileCache) Handler() gin.HandlerFunc {
	value := "no-cache"
	if seconds := int(fc.MaxAge / time.Second); seconds > 0 {
		value = "private, max-age=" + strconv.Itoa(seconds)
	}
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}

// NotModified tags the response with the stored file's name and answers 304 if the client has that file.
// Every upload gets a new stored name, so the name is a strong validator.
func NotModified(c *gin.Context, storedPath string) bool {
	etag := `"` + path.Base(storedPath) + `"`
	c.Header("ETag", etag)
	for _, candidate := range strings.Split(c.GetHeader("If-None-Match"), ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag || candidate == "*" {
			c.AbortWithStatus(http.StatusNotModified)
			return true
		}
	}
	return false
}
