package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tomiwa-code/recipe-share-api/config"
	"github.com/tomiwa-code/recipe-share-api/internal/api"
	"github.com/tomiwa-code/recipe-share-api/internal/database"
	"github.com/tomiwa-code/recipe-share-api/internal/middleware"
	"github.com/tomiwa-code/recipe-share-api/internal/router"
	"github.com/tomiwa-code/recipe-share-api/internal/server"
	"github.com/tomiwa-code/recipe-share-api/internal/service"
	"github.com/tomiwa-code/recipe-share-api/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	mongoDB, err := database.Connect(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to connect to mongo", "error", err)
		os.Exit(1)
	}

	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	s3cfg, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to configure s3", "error", err)
		os.Exit(1)
	}

	uow := store.NewUnitOfWork(mongoDB.Client, logger)
	users := store.NewUserRepository(mongoDB)
	recipes := store.NewRecipeRepository(mongoDB)

	imageService := service.NewImageService(s3cfg.Client, s3cfg.BucketName, logger)
	authService := service.NewAuthService(uow, users, imageService, imageService, cfg.JWTSecret, cfg.JWTExpiry, logger)
	recipeService := service.NewRecipeService(uow, recipes, users, imageService, imageService, logger)

	limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Window: cfg.RateLimitWindow,
		Limit:  cfg.RateLimitRequests,
	})

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.Setup(router.Deps{
		Auth:           api.NewAuthHandler(authService, logger),
		Users:          api.NewUserHandler(authService, logger),
		Recipes:        api.NewRecipeHandler(recipeService, logger),
		TokenValidator: authService,
		RateLimiter:    limiter,
		AllowedOrigins: cfg.AllowedOrigins,
		Health: func(c *gin.Context) {
			if err := mongoDB.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "database unreachable"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "ok"})
		},
	})

	srv := server.New(engine, net.JoinHostPort(cfg.ServerHost, cfg.ServerPort), logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("received signal, shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := mongoDB.Disconnect(shutdownCtx); err != nil {
		logger.Error("mongo disconnect error", "error", err)
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}
	logger.Info("server stopped")
}
