package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/shiningprism/prism-auth/internal/auth"
	appErrors "github.com/shiningprism/prism-auth/pkg/errors"
	"github.com/shiningprism/prism-auth/pkg/response"
)

// CtxAccountIDKey is the gin context key holding the caller's account id.
const CtxAccountIDKey = "accountID"

// SessionCookieName mirrors the cookie written by the auth handler.
const SessionCookieName = "token"

// Auth is the session guard: it resolves the caller's identity from the
// session cookie (or an Authorization bearer header) and aborts with a
// precise 401 otherwise. Missing, invalid, and expired tokens produce
// distinct messages so clients can choose between "log in" and "log in
// again". The guard has no side effects.
func Auth(tokens *iauth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		accountID, err := tokens.Verify(token)
		if err != nil {
			if errors.Is(err, iauth.ErrTokenExpired) {
				response.Error(c, appErrors.ErrSessionExpired)
			} else {
				response.Error(c, appErrors.ErrTokenInvalid)
			}
			c.Abort()
			return
		}

		c.Set(CtxAccountIDKey, accountID)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	authz := c.GetHeader("Authorization")
	if len(authz) > 7 && strings.EqualFold(authz[:7], "Bearer ") {
		return strings.TrimSpace(authz[7:])
	}

	return ""
}
