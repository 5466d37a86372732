package http

import (
	"errors"
	"strconv"
	"time"

	"blogapp/internal/config"
	metrics "blogapp/internal/metrics"
	"blogapp/pkg/customerrors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const accessTokenCookie = "accessToken"

type TokenVerifier interface {
	// VerifyAccessToken verifies the access token and returns the user ID.
	VerifyAccessToken(token string) (userID uuid.UUID, err error)
}

// AuthMiddleware rejects requests without a valid access token cookie and
// attaches the resolved user ID to the request context. It never touches
// the stores.
func AuthMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {

			cookie, err := c.Cookie(accessTokenCookie)
			if err != nil || cookie.Value == "" {
				return customerrors.NewUnauthorized("Unauthorized request")
			}

			userID, err := verifier.VerifyAccessToken(cookie.Value)
			if err != nil {
				return customerrors.NewUnauthorized("Invalid access token")
			}
			if userID == uuid.Nil {
				return customerrors.NewUnauthorized("Invalid access token")
			}

			c.Set("userID", userID)
			return next(c)
		}
	}
}

// OptionalAuthMiddleware attaches the user ID when a valid access token is
// present and continues silently otherwise. Used by public pages that
// personalize for logged-in visitors.
func OptionalAuthMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {

			cookie, err := c.Cookie(accessTokenCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			userID, err := verifier.VerifyAccessToken(cookie.Value)
			if err == nil && userID != uuid.Nil {
				c.Set("userID", userID)
			}
			return next(c)
		}
	}
}

// RateLimitMiddleware applies a fixed-window per-IP limit backed by redis.
// Redis outages fail open; losing rate limiting is preferable to losing
// logins.
func RateLimitMiddleware(client *redis.Client, cfg *config.RateLimiterConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if client == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			key := "ratelimit:" + c.Path() + ":" + c.RealIP()

			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if count == 1 {
				client.Expire(ctx, key, cfg.Window)
			}
			if count > int64(cfg.Limit) {
				return customerrors.NewRateLimited("Too many requests, try again later")
			}
			return next(c)
		}
	}
}

// MetricsMiddleware records request durations labelled by method, route and
// response status.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				// The centralized handler has not run yet; derive the
				// status the envelope will carry.
				status = statusOf(err)
			}

			m.RequestDuration.
				WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func statusOf(err error) int {
	var apiErr *customerrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 500
}
