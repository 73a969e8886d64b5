package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const HeaderServerTime = "X-Server-Time"

// ServerTime reports how long the handler chain took before the response
// headers were sent, in microseconds.
func ServerTime() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &serverTimeWriter{ResponseWriter: c.Writer, start: time.Now()}
		c.Next()
	}
}

type serverTimeWriter struct {
	gin.ResponseWriter
	start   time.Time
	stamped bool
}

func (w *serverTimeWriter) stamp() {
	if w.stamped || w.Written() {
		return
	}
	w.stamped = true
	w.Header().Set(HeaderServerTime, strconv.FormatInt(time.Since(w.start).Microseconds(), 10)+"us")
}

func (w *serverTimeWriter) WriteHeaderNow() {
	w.stamp()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *serverTimeWriter) Write(data []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(data)
}

func (w *serverTimeWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}
