package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/logger"
	"taskboard/internal/ratelimit"
	"taskboard/internal/server"
	"taskboard/internal/validator"

	gfshutdown "github.com/gelmium/graceful-shutdown"
)

const shutdownTimeout = 30 * time.Second

// @title           Taskboard API
// @version         1.0
// @description     Taskboard is a multi-user task tracker: projects, tasks, notifications and a personal calendar.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Login throttling
	var limiter ratelimit.Limiter = ratelimit.Noop{}
	if appConfig.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := ratelimit.NewClient(ctx, appConfig.RedisURL)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		limiter = ratelimit.NewRedisLimiter(client, appConfig.LoginRateLimit, appConfig.LoginRateWindow, "taskboard:ratelimit:")
		log.Infow("Login throttling enabled", "limit", appConfig.LoginRateLimit, "window", appConfig.LoginRateWindow)
	}

	router := server.NewRouter(server.Deps{
		DB:          dbManager.DB(),
		Tokens:      auth.NewTokenManager(appConfig.JWTSecret, appConfig.JWTExpirationDur, appConfig.JWTRefreshExpirationDur),
		Limiter:     limiter,
		CORSOrigins: appConfig.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting Taskboard server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	wait := gfshutdown.GracefulShutdown(context.Background(), shutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			log.Info("Draining HTTP connections")
			return srv.Shutdown(ctx)
		},
	})

	select {
	case err := <-serveErr:
		return fmt.Errorf("server stopped: %w", err)
	case code := <-wait:
		if code != 0 {
			return fmt.Errorf("shutdown finished with exit code %d", code)
		}
		log.Info("Server stopped")
		return nil
	}
}
