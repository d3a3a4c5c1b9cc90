package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/wjy1814-droid/memos/internal/auth"
	"github.com/wjy1814-droid/memos/pkg/errors"
	"github.com/wjy1814-droid/memos/pkg/response"
)

const (
	CtxClaimsKey = "authClaims"
	CtxUserIDKey = "userID"
)

// TokenValidator is the identity contract the API consumes: a bearer token
// in, a stable user identifier out.
type TokenValidator interface {
	ValidateAccessToken(token string) (*iauth.Claims, error)
}

// Auth enforces bearer-token authentication using the supplied validator.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)

		c.Next()
	}
}
