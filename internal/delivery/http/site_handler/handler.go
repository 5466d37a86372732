package siteHandler

import (
	"context"
	"net/http"

	"blogapp/domain/entity"
	"blogapp/pkg/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SiteHandler struct {
	SiteUsecase SiteUsecase
}

type SiteUsecase interface {

	//HomePage assembles the dashboard page model; uuid.Nil means anonymous.
	HomePage(ctx context.Context, userID uuid.UUID) (entity.HomePage, error)

	//HeaderDetails returns the site header widgets.
	HeaderDetails(ctx context.Context, userID uuid.UUID) (entity.HeaderDetails, error)
}

func NewSiteHandler(siteUsecase SiteUsecase) *SiteHandler {
	return &SiteHandler{SiteUsecase: siteUsecase}
}

func (h *SiteHandler) Root(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/home")
}

func (h *SiteHandler) Home(c echo.Context) error {
	userID, _ := c.Get("userID").(uuid.UUID)
	page, err := h.SiteUsecase.HomePage(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, page, "Home page data fetched successfully")
}

func (h *SiteHandler) HeaderDetails(c echo.Context) error {
	userID, _ := c.Get("userID").(uuid.UUID)
	details, err := h.SiteUsecase.HeaderDetails(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, details, "Header details fetched successfully")
}

// Plain form pages. Template rendering is deliberately out of scope; these
// are the minimal markup the JSON API needs to be exercised from a browser.
const loginForm = `<!DOCTYPE html>
<html><head><title>Login</title></head><body>
<form method="post" action="/user/login">
<input name="username" placeholder="username">
<input name="email" placeholder="email">
<input name="password" type="password" placeholder="password">
<button type="submit">Login</button>
</form>
</body></html>`

const registerForm = `<!DOCTYPE html>
<html><head><title>Register</title></head><body>
<form method="post" action="/user/register">
<input name="username" placeholder="username">
<input name="email" placeholder="email">
<input name="password" type="password" placeholder="password">
<button type="submit">Register</button>
</form>
</body></html>`

const addBlogForm = `<!DOCTYPE html>
<html><head><title>Add Blog</title></head><body>
<form method="post" action="/blog/create" enctype="multipart/form-data">
<input name="title" placeholder="title">
<textarea name="content" placeholder="content"></textarea>
<input name="categories" placeholder='["tech"]'>
<input name="image" type="file">
<button type="submit">Publish</button>
</form>
</body></html>`

func (h *SiteHandler) LoginForm(c echo.Context) error {
	return c.HTML(http.StatusOK, loginForm)
}

func (h *SiteHandler) RegisterForm(c echo.Context) error {
	return c.HTML(http.StatusOK, registerForm)
}

func (h *SiteHandler) AddBlogForm(c echo.Context) error {
	return c.HTML(http.StatusOK, addBlogForm)
}
