package log

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const headerRequestID = "X-Request-ID"

// actorFields are copied from the gin context into the access log when the
// auth middleware set them.
var actorFields = []string{FieldUserID, FieldWorkspaceID}

// GinMiddleware puts a request scoped logger into the request context and
// writes one access log entry per request. Server errors log at error level,
// client errors at warn.
func GinMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := requestID(c)
		c.Header(headerRequestID, reqID)

		scoped := logger.With().
			Str(FieldRequestID, reqID).
			Str(FieldMethod, c.Request.Method).
			Str(FieldPath, c.Request.URL.Path).
			Str(FieldClientIP, c.ClientIP()).
			Logger()
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), scoped))

		c.Next()

		status := c.Writer.Status()
		var evt *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			evt = scoped.Error()
		case status >= http.StatusBadRequest:
			evt = scoped.Warn()
		default:
			evt = scoped.Info()
		}

		evt = evt.Int(FieldStatus, status).Dur(FieldLatency, time.Since(start))
		for _, key := range actorFields {
			if id, ok := c.Value(key).(int64); ok {
				evt = evt.Int64(key, id)
			}
		}
		evt.Msg("request completed")
	}
}

func requestID(c *gin.Context) string {
	if id := c.GetHeader(headerRequestID); id != "" {
		return id
	}
	return uuid.NewString()
}
