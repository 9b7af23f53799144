package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/shiningprism/prism-auth/internal/auth"
)

func newGuardedEngine(t *testing.T, tokens *iauth.TokenService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/guarded", Auth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"accountID": c.GetString(CtxAccountIDKey)})
	})
	return r
}

func guardRequest(t *testing.T, r *gin.Engine, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if mutate != nil {
		mutate(req)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func guardMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	msg, _ := payload["message"].(string)
	return msg
}

func TestAuthGuardDistinguishesFailures(t *testing.T) {
	tokens, err := iauth.NewTokenService(iauth.TokenConfig{Secret: "guard-secret", Issuer: "prism-auth"})
	require.NoError(t, err)
	r := newGuardedEngine(t, tokens)

	// No token at all.
	rec := guardRequest(t, r, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Authentication required. Please log in.", guardMessage(t, rec))

	// Garbage token.
	rec = guardRequest(t, r, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-jwt"})
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid token. Please log in again.", guardMessage(t, rec))

	// Token signed with a different secret.
	foreign, err := iauth.NewTokenService(iauth.TokenConfig{Secret: "other-secret", Issuer: "prism-auth"})
	require.NoError(t, err)
	forged, err := foreign.Issue("acct-1")
	require.NoError(t, err)

	rec = guardRequest(t, r, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: forged})
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid token. Please log in again.", guardMessage(t, rec))

	// Expired token gets its own message.
	past := time.Now().Add(-8 * 24 * time.Hour)
	stale, err := iauth.NewTokenService(iauth.TokenConfig{
		Secret: "guard-secret",
		Issuer: "prism-auth",
		Clock:  func() time.Time { return past },
	})
	require.NoError(t, err)
	expired, err := stale.Issue("acct-1")
	require.NoError(t, err)

	rec = guardRequest(t, r, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: expired})
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Session expired. Please log in again.", guardMessage(t, rec))
}

func TestAuthGuardAcceptsCookieAndBearer(t *testing.T) {
	tokens, err := iauth.NewTokenService(iauth.TokenConfig{Secret: "guard-secret", Issuer: "prism-auth"})
	require.NoError(t, err)
	r := newGuardedEngine(t, tokens)

	token, err := tokens.Issue("acct-42")
	require.NoError(t, err)

	rec := guardRequest(t, r, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "acct-42", payload["accountID"])

	rec = guardRequest(t, r, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// The cookie wins when both are present.
	rec = guardRequest(t, r, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		req.Header.Set("Authorization", "Bearer garbage")
	})
	require.Equal(t, http.StatusOK, rec.Code)
}
