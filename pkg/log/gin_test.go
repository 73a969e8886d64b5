package log

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestGinMiddleware_RequestIDAndActor(t *testing.T) {
	req := require.New(t)
	gin.SetMode(gin.TestMode)

	// Given a router with the logging middleware and a handler that sets the actor
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "info", ServiceName: "test"}, &buf)
	r := gin.New()
	r.Use(GinMiddleware(logger))
	r.GET("/ping", func(c *gin.Context) {
		c.Set(FieldUserID, int64(42))
		l := Ctx(c.Request.Context())
		l.Info().Msg("inside")
		c.Status(http.StatusNoContent)
	})

	// When a request carries an explicit request id
	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodGet, "/ping", nil)
	httpReq.Header.Set(headerRequestID, "abc")
	r.ServeHTTP(w, httpReq)

	// Then the id is echoed and both log lines carry it
	req.Equal("abc", w.Header().Get(headerRequestID))
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	req.Len(lines, 2)

	var completed map[string]any
	req.NoError(json.Unmarshal(lines[1], &completed))
	req.Equal("abc", completed[FieldRequestID])
	req.Equal("test", completed[FieldService])
	req.EqualValues(http.StatusNoContent, completed[FieldStatus])
	req.EqualValues(42, completed[FieldUserID])
}

func TestGinMiddleware_GeneratesRequestID(t *testing.T) {
	req := require.New(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(GinMiddleware(NewWithWriter(Config{Level: "disabled"}, &bytes.Buffer{})))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	req.Len(w.Header().Get(headerRequestID), 36)
}

func TestParseLevel(t *testing.T) {
	req := require.New(t)
	req.Equal("debug", parseLevel("DEBUG").String())
	req.Equal("warn", parseLevel(" warning ").String())
	req.Equal("info", parseLevel("whatever").String())
}

func TestGinMiddleware_LevelFollowsStatus(t *testing.T) {
	req := require.New(t)
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	r := gin.New()
	r.Use(GinMiddleware(NewWithWriter(Config{Level: "info"}, &buf)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	for path, level := range map[string]string{"/missing": "warn", "/boom": "error"} {
		buf.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))

		var entry map[string]any
		req.NoError(json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
		req.Equal(level, entry["level"], path)
	}
}

func TestWithInt64_ExtendsContextLogger(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), NewWithWriter(Config{Level: "info"}, &buf))

	ctx = WithInt64(ctx, FieldChatID, 5)
	l := Ctx(ctx)
	l.Info().Msg("scoped")

	req.Contains(buf.String(), `"chat_id":5`)
}
