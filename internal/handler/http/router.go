package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mohammedadiga/newRoodxServer/internal/config"
	"github.com/mohammedadiga/newRoodxServer/internal/handler/http/middleware"
	"github.com/mohammedadiga/newRoodxServer/internal/infrastructure/security"
)

// NewRouter assembles the gin engine: recovery, CORS, request logging and
// metrics on every route, the public lifecycle endpoints and the
// authenticated session surface under the configured base path.
func NewRouter(
	cfg *config.Config,
	tokens *security.TokenService,
	authHandler *AuthHandler,
	sessionHandler *SessionHandler,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware(logger))
	if cfg.Metrics.Enabled {
		router.Use(middleware.MetricsMiddleware())
	}

	corsConfig := cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	requireAuth := middleware.AuthMiddleware(tokens, logger)

	api := router.Group(cfg.BasePath)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/check", authHandler.Check)
			auth.POST("/register", authHandler.Register)
			auth.POST("/register/activate", authHandler.Activate)
			auth.POST("/login", authHandler.Login)
			auth.GET("/refresh", authHandler.Refresh)
			auth.DELETE("/logout", requireAuth, authHandler.Logout)
		}

		password := api.Group("/password")
		{
			password.POST("/forgot", authHandler.ForgotPassword)
			password.POST("/active", authHandler.ActivatePassword)
			password.PUT("/reset", authHandler.ResetPassword)
		}

		session := api.Group("/session", requireAuth)
		{
			session.GET("", sessionHandler.Current)
			session.GET("/all", sessionHandler.List)
			session.DELETE("/:id", sessionHandler.Delete)
		}
	}

	return router
}
