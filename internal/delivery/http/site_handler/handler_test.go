package siteHandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blogapp/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type fakeSiteUsecase struct {
	page      entity.HomePage
	details   entity.HeaderDetails
	gotUserID uuid.UUID
}

func (f *fakeSiteUsecase) HomePage(_ context.Context, userID uuid.UUID) (entity.HomePage, error) {
	f.gotUserID = userID
	return f.page, nil
}

func (f *fakeSiteUsecase) HeaderDetails(_ context.Context, userID uuid.UUID) (entity.HeaderDetails, error) {
	f.gotUserID = userID
	return f.details, nil
}

func TestRootRedirectsToHome(t *testing.T) {
	h := NewSiteHandler(&fakeSiteUsecase{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Root(c); err != nil {
		t.Fatalf("Root() error = %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/home" {
		t.Errorf("location = %q, want /home", loc)
	}
}

func TestHomeEnvelope(t *testing.T) {
	uc := &fakeSiteUsecase{
		page: entity.HomePage{
			Statistics: entity.Statistics{TopAuthor: "N/A", MostLikedBlog: "N/A"},
		},
	}
	h := NewSiteHandler(uc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Home(c); err != nil {
		t.Fatalf("Home() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if uc.gotUserID != uuid.Nil {
		t.Errorf("userID = %v, want Nil for anonymous", uc.gotUserID)
	}

	var body struct {
		Data entity.HomePage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if body.Data.Statistics.TopAuthor != "N/A" {
		t.Errorf("data = %+v", body.Data)
	}
}

func TestHomePassesAuthenticatedUser(t *testing.T) {
	uc := &fakeSiteUsecase{}
	h := NewSiteHandler(uc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	userID := uuid.New()
	c.Set("userID", userID)

	if err := h.Home(c); err != nil {
		t.Fatalf("Home() error = %v", err)
	}
	if uc.gotUserID != userID {
		t.Errorf("userID = %v, want %v", uc.gotUserID, userID)
	}
}

func TestFormPages(t *testing.T) {
	h := NewSiteHandler(&fakeSiteUsecase{})
	e := echo.New()

	tests := []struct {
		name    string
		handler echo.HandlerFunc
		marker  string
	}{
		{"login", h.LoginForm, `action="/user/login"`},
		{"register", h.RegisterForm, `action="/user/register"`},
		{"add blog", h.AddBlogForm, `action="/blog/create"`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if err := test.handler(c); err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), test.marker) {
				t.Errorf("page missing %q", test.marker)
			}
		})
	}
}
