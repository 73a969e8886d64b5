package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/wrxx97/chat/pkg/response"
)

func TestServerTime(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ServerTime())
	r.GET("/json", func(c *gin.Context) { response.Success(c, gin.H{"ok": true}) })
	r.DELETE("/empty", func(c *gin.Context) { response.NoContent(c) })

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/json"},
		{http.MethodDelete, "/empty"},
	} {
		t.Run(tc.path, func(t *testing.T) {
			req := require.New(t)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			got := w.Header().Get(HeaderServerTime)
			req.True(strings.HasSuffix(got, "us"), "header %q", got)
		})
	}
}
