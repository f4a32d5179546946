package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mohammedadiga/newRoodxServer/internal/config"
	"github.com/mohammedadiga/newRoodxServer/internal/infrastructure/security"
)

func newTestRouter(tokens *security.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(tokens, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId":    c.GetString(ContextUserIDKey),
			"sessionId": c.GetString(ContextSessionIDKey),
		})
	})
	return router
}

func testTokens() *security.TokenService {
	return security.NewTokenService(config.JWTConfig{
		AccessSecret:       "access-secret",
		RefreshSecret:      "refresh-secret",
		ActivationSecret:   "activation-secret",
		Audience:           "user",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    720 * time.Hour,
		ActivationTokenTTL: 5 * time.Minute,
	})
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	router := newTestRouter(testTokens())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_NOT_FOUND")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router := newTestRouter(testTokens())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ACCESS_UNAUTHORIZED")
}

func TestAuthMiddleware_BearerHeader(t *testing.T) {
	tokens := testTokens()
	router := newTestRouter(tokens)

	token, err := tokens.SignAccessToken("user-1", "session-1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
	assert.Contains(t, w.Body.String(), "session-1")
}

func TestAuthMiddleware_Cookie(t *testing.T) {
	tokens := testTokens()
	router := newTestRouter(tokens)

	token, err := tokens.SignAccessToken("user-1", "session-1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_RefreshTokenRejected(t *testing.T) {
	tokens := testTokens()
	router := newTestRouter(tokens)

	// A refresh token must never pass as an access token.
	refresh, err := tokens.SignRefreshToken("session-1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
