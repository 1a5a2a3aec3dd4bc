package utils

import (
	"github.com/gin-gonic/gin"

	"surveyserver/logger"
)

type errorLogWriter struct {
	gin.ResponseWriter
	gc  *gin.Context
	log *logger.Logger
}

func (w errorLogWriter) Write(b []byte) (int, error) {
	status := w.gc.Writer.Status()
	if status >= 400 {
		w.log.Debug("Error response", "status", status, "path", w.gc.Request.URL.Path, "body", string(b))
	}
	return w.ResponseWriter.Write(b)
}

// ErrorLogMiddleware logs error response bodies. It doesn't work with GZIP.
func ErrorLogMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		blw := &errorLogWriter{gc: c, ResponseWriter: c.Writer, log: log}
		c.Writer = blw
		c.Next()
	}
}
