package userHandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blogapp/domain/entity"
	"blogapp/pkg/customerrors"
	errHandler "blogapp/pkg/error_handler"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type fakeUserUsecase struct {
	user entity.User
	pair entity.TokenPair
	err  error
}

func (f *fakeUserUsecase) Register(_ context.Context, _, _, _ string) (entity.User, entity.TokenPair, error) {
	return f.user, f.pair, f.err
}

func (f *fakeUserUsecase) Login(_ context.Context, _, _, _ string) (entity.User, entity.TokenPair, error) {
	return f.user, f.pair, f.err
}

func (f *fakeUserUsecase) Refresh(_ context.Context, _ string) (entity.User, entity.TokenPair, error) {
	return f.user, f.pair, f.err
}

func newTestServer(uc UserUsecase) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = errHandler.HandleError
	h := NewUserHandler(uc, CookieConfig{
		AccessMaxAge:  15 * time.Minute,
		RefreshMaxAge: 240 * time.Hour,
	}, nil)
	e.POST("/user/register", h.Register)
	e.POST("/user/login", h.Login)
	e.POST("/user/refresh", h.Refresh)
	return e
}

func aliceFixture() *fakeUserUsecase {
	return &fakeUserUsecase{
		user: entity.User{
			ID:           uuid.New(),
			Email:        "a@x.com",
			Username:     "alice",
			PasswordHash: "$2a$10$secret",
			RefreshToken: "stored-refresh",
		},
		pair: entity.TokenPair{AccessToken: "access-jwt", RefreshToken: "refresh-jwt"},
	}
}

func TestRegisterSuccessEnvelope(t *testing.T) {
	e := newTestServer(aliceFixture())

	req := httptest.NewRequest(http.MethodPost, "/user/register",
		strings.NewReader(`{"username":"alice","email":"a@x.com","password":"longpassword"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var body struct {
		StatusCode int            `json:"statusCode"`
		Data       map[string]any `json:"data"`
		Message    string         `json:"message"`
		Success    bool           `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if !body.Success || body.StatusCode != 201 {
		t.Errorf("envelope = %+v", body)
	}
	if body.Data["accessToken"] != "access-jwt" || body.Data["refreshToken"] != "refresh-jwt" {
		t.Errorf("tokens missing from data: %v", body.Data)
	}

	user, ok := body.Data["user"].(map[string]any)
	if !ok {
		t.Fatalf("data.user missing: %v", body.Data)
	}
	if user["username"] != "alice" {
		t.Errorf("user = %v", user)
	}
	// Sanitized: credential and session fields must not be serialized.
	for _, forbidden := range []string{"password", "passwordHash", "password_hash", "refreshToken", "refresh_token"} {
		if _, present := user[forbidden]; present {
			t.Errorf("sanitized user leaked field %q", forbidden)
		}
	}
}

func TestRegisterSetsAuthCookies(t *testing.T) {
	e := newTestServer(aliceFixture())

	req := httptest.NewRequest(http.MethodPost, "/user/register",
		strings.NewReader(`{"username":"alice","email":"a@x.com","password":"longpassword"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	byName := map[string]*http.Cookie{}
	for _, cookie := range cookies {
		byName[cookie.Name] = cookie
	}

	access, ok := byName["accessToken"]
	if !ok {
		t.Fatal("accessToken cookie not set")
	}
	refresh, ok := byName["refreshToken"]
	if !ok {
		t.Fatal("refreshToken cookie not set")
	}

	for name, cookie := range map[string]*http.Cookie{"accessToken": access, "refreshToken": refresh} {
		if !cookie.HttpOnly {
			t.Errorf("%s cookie is not HttpOnly", name)
		}
		if cookie.SameSite != http.SameSiteStrictMode {
			t.Errorf("%s cookie SameSite = %v, want Strict", name, cookie.SameSite)
		}
		if cookie.Secure {
			t.Errorf("%s cookie Secure set outside production", name)
		}
	}
	if access.MaxAge != int((15 * time.Minute).Seconds()) {
		t.Errorf("accessToken MaxAge = %d", access.MaxAge)
	}
	if refresh.MaxAge != int((240 * time.Hour).Seconds()) {
		t.Errorf("refreshToken MaxAge = %d", refresh.MaxAge)
	}
}

func TestSecureCookieInProduction(t *testing.T) {
	e := echo.New()
	h := NewUserHandler(aliceFixture(), CookieConfig{
		AccessMaxAge:  15 * time.Minute,
		RefreshMaxAge: 240 * time.Hour,
		Secure:        true,
	}, nil)
	e.POST("/user/login", h.Login)

	req := httptest.NewRequest(http.MethodPost, "/user/login",
		strings.NewReader(`{"username":"alice","password":"longpassword"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if !cookie.Secure {
			t.Errorf("%s cookie not Secure in production config", cookie.Name)
		}
	}
}

func TestLoginSuccess(t *testing.T) {
	e := newTestServer(aliceFixture())

	req := httptest.NewRequest(http.MethodPost, "/user/login",
		strings.NewReader(`{"username":"alice","password":"longpassword"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(rec.Result().Cookies()) != 2 {
		t.Errorf("cookies = %d, want 2", len(rec.Result().Cookies()))
	}
}

func TestDomainErrorBecomesEnvelope(t *testing.T) {
	e := newTestServer(&fakeUserUsecase{err: customerrors.NewConflict("User already exists")})

	req := httptest.NewRequest(http.MethodPost, "/user/register",
		strings.NewReader(`{"username":"alice","email":"a@x.com","password":"longpassword"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if body["success"] != false || body["message"] != "User already exists" {
		t.Errorf("envelope = %v", body)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("cookies set on failed registration")
	}
}

func TestRefreshReadsCookie(t *testing.T) {
	uc := aliceFixture()
	e := newTestServer(uc)

	req := httptest.NewRequest(http.MethodPost, "/user/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "refresh-jwt"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
