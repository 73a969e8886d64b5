package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	pkglog "github.com/wrxx97/chat/pkg/log"
	"github.com/wrxx97/chat/pkg/model"
	"github.com/wrxx97/chat/pkg/response"
)

const (
	UserKey       = "user"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
	// TokenQueryKey lets EventSource clients, which cannot set headers, authenticate.
	TokenQueryKey = "access_token"
)

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	Verify(token string) (*model.User, error)
}

// RequireAuth rejects requests without a credential with 401 and requests
// with a credential that fails verification with 403.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			response.Unauthorized(c, "missing or malformed authorization")
			c.Abort()
			return
		}

		user, err := verifier.Verify(token)
		if err != nil {
			l := pkglog.Ctx(c.Request.Context())
			l.Warn().Err(err).Msg("token verification failed")
			response.Forbidden(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(UserKey, user)
		c.Set(pkglog.FieldUserID, user.ID)
		c.Set(pkglog.FieldWorkspaceID, user.WsID)

		c.Next()
	}
}

func extractToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader(AuthHeaderKey); header != "" {
		if !strings.HasPrefix(header, BearerPrefix) {
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		return token, token != ""
	}

	if token := c.Query(TokenQueryKey); token != "" {
		return token, true
	}
	return "", false
}

// GetUser returns the authenticated user, or nil outside RequireAuth.
func GetUser(c *gin.Context) *model.User {
	if v, ok := c.Get(UserKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}
