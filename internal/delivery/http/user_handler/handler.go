package userHandler

import (
	"context"
	"net/http"
	"time"

	"blogapp/domain/entity"
	metrics "blogapp/internal/metrics"
	"blogapp/pkg/response"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	UserUsecase UserUsecase
	Cookies     CookieConfig
	Metrics     *metrics.Metrics
}

type UserUsecase interface {

	//Register creates a new user and issues the first token pair.
	Register(ctx context.Context, email, username, password string) (entity.User, entity.TokenPair, error)

	//Login authenticates by username or email and rotates the refresh token.
	Login(ctx context.Context, username, email, password string) (entity.User, entity.TokenPair, error)

	//Refresh exchanges a valid refresh token for a fresh pair.
	Refresh(ctx context.Context, refreshToken string) (entity.User, entity.TokenPair, error)
}

// CookieConfig controls the auth cookie attributes. MaxAge mirrors each
// token's configured lifetime; Secure is set for production deployments.
type CookieConfig struct {
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
	Secure        bool
}

func NewUserHandler(userUsecase UserUsecase, cookies CookieConfig, m *metrics.Metrics) *UserHandler {
	return &UserHandler{
		UserUsecase: userUsecase,
		Cookies:     cookies,
		Metrics:     m,
	}
}

// DTOs
type RegisterRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	user, pair, err := h.UserUsecase.Register(c.Request().Context(), req.Email, req.Username, req.Password)
	if err != nil {
		return err
	}
	h.setAuthCookies(c, pair)
	return response.JSON(c, http.StatusCreated, echo.Map{
		"user":         user.Public(),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User created successfully")
}

func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	user, pair, err := h.UserUsecase.Login(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if h.Metrics != nil {
			h.Metrics.LoginAttempts.WithLabelValues("failure").Inc()
		}
		return err
	}
	if h.Metrics != nil {
		h.Metrics.LoginAttempts.WithLabelValues("success").Inc()
	}
	h.setAuthCookies(c, pair)
	return response.JSON(c, http.StatusOK, echo.Map{
		"user":         user.Public(),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User logged in successfully")
}

// Refresh reads the refresh token from its cookie, falling back to the
// request body for non-browser clients.
func (h *UserHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if cookie, err := c.Cookie("refreshToken"); err == nil {
		req.RefreshToken = cookie.Value
	}
	if req.RefreshToken == "" {
		if err := c.Bind(&req); err != nil {
			return err
		}
	}
	user, pair, err := h.UserUsecase.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	h.setAuthCookies(c, pair)
	return response.JSON(c, http.StatusOK, echo.Map{
		"user":         user.Public(),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Tokens refreshed successfully")
}

func (h *UserHandler) setAuthCookies(c echo.Context, pair entity.TokenPair) {
	c.SetCookie(&http.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(h.Cookies.AccessMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.Cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(h.Cookies.RefreshMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.Cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
