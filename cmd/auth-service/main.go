package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mohammedadiga/newRoodxServer/internal/config"
	"github.com/mohammedadiga/newRoodxServer/internal/events/kafka"
	handler "github.com/mohammedadiga/newRoodxServer/internal/handler/http"
	"github.com/mohammedadiga/newRoodxServer/internal/infrastructure/security"
	"github.com/mohammedadiga/newRoodxServer/internal/repository/mongodb"
	redisrepo "github.com/mohammedadiga/newRoodxServer/internal/repository/redis"
	"github.com/mohammedadiga/newRoodxServer/internal/service"
	"github.com/mohammedadiga/newRoodxServer/internal/utils/logger"
)

func main() {
	// Local development convenience; absent .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg.Logging.Level, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	if err := run(cfg, appLogger); err != nil {
		appLogger.Fatal("Service terminated", zap.Error(err))
	}
}

func run(cfg *config.Config, appLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Warn("Failed to disconnect mongodb", zap.Error(err))
		}
	}()

	userRepo := mongodb.NewUserRepository(db, appLogger)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	cache, err := redisrepo.NewClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer cache.Close()

	var events kafka.Publisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, appLogger)
		if err != nil {
			return err
		}
		events = producer
	}
	defer events.Close()

	tokens := security.NewTokenService(cfg.JWT)
	verifications := service.NewVerificationService(
		tokens, cache, int(cfg.JWT.ActivationTokenTTL.Seconds()), appLogger)
	authService := service.NewAuthService(userRepo, verifications, tokens, cache, events, appLogger)
	passwordService := service.NewPasswordService(userRepo, verifications, events, appLogger)
	sessionService := service.NewSessionService(userRepo, appLogger)

	authHandler := handler.NewAuthHandler(authService, passwordService, cfg, appLogger)
	sessionHandler := handler.NewSessionHandler(sessionService, cfg, appLogger)
	router := handler.NewRouter(cfg, tokens, authHandler, sessionHandler, appLogger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("Auth service listening",
			zap.Int("port", cfg.Server.Port),
			zap.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
