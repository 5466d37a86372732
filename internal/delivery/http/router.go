package http

import (
	"log/slog"

	"blogapp/internal/config"
	blogHandler "blogapp/internal/delivery/http/blog_handler"
	siteHandler "blogapp/internal/delivery/http/site_handler"
	userHandler "blogapp/internal/delivery/http/user_handler"
	metrics "blogapp/internal/metrics"

	"github.com/labstack/echo/v4"
	middleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func MapRoutes(
	e *echo.Echo,
	users *userHandler.UserHandler,
	blogs *blogHandler.BlogHandler,
	site *siteHandler.SiteHandler,
	verifier TokenVerifier,
	logger *slog.Logger,
	corsOrigin string,
	rateLimiterConfig config.RateLimiterConfig,
	m *metrics.Metrics,
	reg *prometheus.Registry,
	client *redis.Client,
) {
	// Middlewares
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{corsOrigin},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("16M"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper:   middleware.DefaultSkipper,
		LogURI:    true,
		LogMethod: true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {

			if v.Error != nil {
				logger.Error("HTTP request error",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"error", v.Error,
				)
				return nil
			}

			logger.Info("HTTP request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)

			return nil
		},
	},
	))

	//routes
	e.GET("/", site.Root)
	e.GET("/home", site.Home, OptionalAuthMiddleware(verifier), MetricsMiddleware(m))
	e.GET("/header", site.HeaderDetails, OptionalAuthMiddleware(verifier), MetricsMiddleware(m))
	e.GET("/login", site.LoginForm)
	e.GET("/register", site.RegisterForm)
	e.GET("/blog/add", site.AddBlogForm, AuthMiddleware(verifier))

	e.POST("/user/register", users.Register, MetricsMiddleware(m))
	e.POST("/user/login", users.Login, RateLimitMiddleware(client, &rateLimiterConfig), MetricsMiddleware(m))
	e.POST("/user/refresh", users.Refresh, MetricsMiddleware(m))

	e.POST("/blog/create", blogs.Create, AuthMiddleware(verifier), MetricsMiddleware(m))

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	logger.Info("HTTP routes mapped successfully")
}
