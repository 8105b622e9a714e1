package middlewares

import (
	"log/slog"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireJSONPayload rejects requests without a body (400) or with a non-JSON content type (415).
func RequireJSONPayload() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			slog.Debug("payload missing", slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "payload missing"})
			return
		}

		mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
		if err != nil || mediaType != gin.MIMEJSON {
			slog.Debug("unsupported content type", slog.String("path", c.Request.URL.Path), slog.String("contentType", c.GetHeader("Content-Type")))
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{"error": "expected " + gin.MIMEJSON + " payload"})
			return
		}
		c.Next()
	}
}
