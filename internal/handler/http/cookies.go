package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohammedadiga/newRoodxServer/internal/config"
	"github.com/mohammedadiga/newRoodxServer/internal/domain/models"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// cookieWriter centralizes the transport of the token pair: HttpOnly
// always, Secure + SameSite=Strict in production, and the refresh cookie
// path-scoped to the refresh endpoint so it never travels with ordinary
// API calls.
type cookieWriter struct {
	cfg *config.Config
}

func (w cookieWriter) refreshPath() string {
	return w.cfg.BasePath + "/auth/refresh"
}

func (w cookieWriter) sameSite() http.SameSite {
	if w.cfg.IsProduction() {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

func (w cookieWriter) setAuthCookies(c *gin.Context, pair models.TokenPair) {
	secure := w.cfg.IsProduction()
	c.SetSameSite(w.sameSite())
	if pair.AccessToken != "" {
		c.SetCookie(accessTokenCookie, pair.AccessToken,
			int(w.cfg.JWT.AccessTokenTTL.Seconds()), "/", "", secure, true)
	}
	if pair.RefreshToken != "" {
		c.SetCookie(refreshTokenCookie, pair.RefreshToken,
			int(w.cfg.JWT.RefreshTokenTTL.Seconds()), w.refreshPath(), "", secure, true)
	}
}

func (w cookieWriter) clearAuthCookies(c *gin.Context) {
	secure := w.cfg.IsProduction()
	c.SetSameSite(w.sameSite())
	c.SetCookie(accessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, w.refreshPath(), "", secure, true)
}
