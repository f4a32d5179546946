package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/mohammedadiga/newRoodxServer/internal/domain/errors"
	"github.com/mohammedadiga/newRoodxServer/internal/infrastructure/security"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	ContextUserIDKey    = "userID"
	ContextSessionIDKey = "sessionID"
)

const accessTokenCookie = "accessToken"

// AuthMiddleware authenticates a request from the accessToken cookie or an
// Authorization: Bearer header and stores the token's user and session ids
// in the gin context.
func AuthMiddleware(tokens *security.TokenService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  domainErrors.CodeTokenNotFound,
			})
			return
		}

		claims, err := tokens.VerifyAccessToken(tokenString)
		if err != nil {
			logger.Warn("Invalid access token", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
				"code":  domainErrors.CodeUnauthorized,
			})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextSessionIDKey, claims.SessionID)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(accessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
