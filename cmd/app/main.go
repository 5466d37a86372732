package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"blogapp/internal/cache"
	"blogapp/internal/config"
	routes "blogapp/internal/delivery/http"
	blogHandler "blogapp/internal/delivery/http/blog_handler"
	siteHandler "blogapp/internal/delivery/http/site_handler"
	userHandler "blogapp/internal/delivery/http/user_handler"
	"blogapp/internal/media"
	"blogapp/internal/metrics"
	psql "blogapp/internal/storage/postgres"
	blogRepo "blogapp/internal/storage/postgres/blog"
	userRepo "blogapp/internal/storage/postgres/user"
	blogUs "blogapp/internal/usecase/blog"
	userUs "blogapp/internal/usecase/user"
	errHandler "blogapp/pkg/error_handler"
	"blogapp/pkg/jwt"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	config := config.LoadConfig()
	logger := setupLogger(config.Env)
	slog.SetDefault(logger)
	logger.Info("Application started", "env", config.Env)

	// Initialize Postgres connection
	DSN := config.PostgresConfig.DSN()
	pool, err := psql.NewPostgresConnection(DSN)
	if err != nil {
		logger.Error("Failed to connect to the database", "error", err)
		return
	}
	defer pool.Close()
	logger.Info("Connected to the database successfully")

	// Redis backs the login rate limiter and the home page-model cache.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.RedisConfig.Addr,
		Password: config.RedisConfig.Password,
		DB:       config.RedisConfig.DB,
	})
	defer redisClient.Close()

	jwtManager := jwt.NewManager(
		config.JWTConfig.AccessSecret,
		config.JWTConfig.RefreshSecret,
		config.JWTConfig.AccessTTL,
		config.JWTConfig.RefreshTTL,
	)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errHandler.HandleError

	// Metrics
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	// Initialize repositories and collaborators
	userRepo := userRepo.NewUserRepo(pool, m)
	blogRepo := blogRepo.NewBlogRepo(pool, m)
	mediaClient := media.NewClient(config.MediaConfig)
	pageCache := cache.NewRedisCache(redisClient)

	// Initialize use cases
	userUsecase := userUs.NewUserUsecase(userRepo, jwtManager)
	blogUsecase := blogUs.NewBlogUsecase(blogRepo, userRepo, mediaClient, pageCache)

	// Initialize handlers and map routes
	cookies := userHandler.CookieConfig{
		AccessMaxAge:  config.JWTConfig.AccessTTL,
		RefreshMaxAge: config.JWTConfig.RefreshTTL,
		Secure:        config.Env == "production",
	}
	users := userHandler.NewUserHandler(userUsecase, cookies, m)
	blogs := blogHandler.NewBlogHandler(blogUsecase, config.UploadConfig.Dir, m)
	site := siteHandler.NewSiteHandler(blogUsecase)

	routes.MapRoutes(e, users, blogs, site, jwtManager, logger, config.CORSOrigin, config.RateLimiterConfig, m, reg, redisClient)

	serverParams := &http.Server{
		Addr:         net.JoinHostPort(config.Server.Host, strconv.Itoa(config.Server.Port)),
		ReadTimeout:  config.Server.Timeout,
		WriteTimeout: config.Server.Timeout,
		IdleTimeout:  config.Server.IdleTimeout,
	}

	// Start the server and handle graceful shutdown. The application
	// listens for interrupt signals and lets in-flight requests finish
	// before stopping.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("addr", serverParams.Addr))
		if err := e.StartServer(serverParams); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server...")

		shutDownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := e.Shutdown(shutDownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
			return err
		}
		logger.Info("Server stopped gracefully")
		return nil
	})

	// Wait for all goroutines to finish and check for errors
	if err := g.Wait(); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Error("Application stopped with error", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

// setupLogger configures the logger based on the environment (production, development, local).
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case "production":
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "development", "local":
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return log
}
