package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BMDarkLight/Simple-Doctor-API/util"
)

// EndpointCallLogger logs each HTTP request as an ENDPOINT_CALL security event.
// Events are persisted when sec has an audit database attached.
func EndpointCallLogger(sec *util.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		subject, _ := GetSubject(c)

		details := map[string]any{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"raw_path":    c.Request.URL.Path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"query":       c.Request.URL.RawQuery,
		}
		if len(c.Errors) > 0 {
			details["errors"] = c.Errors.String()
		}

		sec.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventEndpointCall,
			Email:     subject,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			RequestID: GetRequestID(c),
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
			Details:   details,
		})
	}
}
