package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/wrxx97/chat/pkg/model"
)

type stubVerifier map[string]*model.User

func (s stubVerifier) Verify(token string) (*model.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, errors.New("bad token")
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireAuth(stubVerifier{"good": {ID: 9, WsID: 1}}))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, GetUser(c))
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{name: "missing", status: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", status: http.StatusUnauthorized},
		{name: "invalid", header: "Bearer bad", status: http.StatusForbidden},
		{name: "valid header", header: "Bearer good", status: http.StatusOK},
		{name: "valid query", query: "good", status: http.StatusOK},
		{name: "invalid query", query: "bad", status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			target := "/me"
			if tt.query != "" {
				target += "?" + TokenQueryKey + "=" + tt.query
			}
			httpReq := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				httpReq.Header.Set(AuthHeaderKey, tt.header)
			}

			w := httptest.NewRecorder()
			newRouter().ServeHTTP(w, httpReq)

			req.Equal(tt.status, w.Code)
			if tt.status == http.StatusOK {
				req.Contains(w.Body.String(), `"id":9`)
			}
		})
	}
}
