package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestManager() *Manager {
	return NewManager("access-secret", "refresh-secret", 15*time.Minute, 240*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	token, err := m.NewAccessToken(userID)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}
	got, err := m.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error = %v", err)
	}
	if got != userID {
		t.Errorf("VerifyAccessToken() = %v, want %v", got, userID)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	token, err := m.NewRefreshToken(userID)
	if err != nil {
		t.Fatalf("NewRefreshToken() error = %v", err)
	}
	got, err := m.VerifyRefreshToken(token)
	if err != nil {
		t.Fatalf("VerifyRefreshToken() error = %v", err)
	}
	if got != userID {
		t.Errorf("VerifyRefreshToken() = %v, want %v", got, userID)
	}
}

// The two token kinds use separate secrets; an access token must never be
// accepted where a refresh token is expected, and vice versa.
func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	access, _ := m.NewAccessToken(userID)
	refresh, _ := m.NewRefreshToken(userID)

	if _, err := m.VerifyRefreshToken(access); err == nil {
		t.Error("VerifyRefreshToken() accepted an access token")
	}
	if _, err := m.VerifyAccessToken(refresh); err == nil {
		t.Error("VerifyAccessToken() accepted a refresh token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)
	userID := uuid.New()

	token, err := m.NewAccessToken(userID)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}
	if _, err := m.VerifyAccessToken(token); err == nil {
		t.Error("VerifyAccessToken() accepted an expired token")
	}
}

func TestForgedTokenRejected(t *testing.T) {
	m := newTestManager()
	other := NewManager("other-secret", "other-refresh", 15*time.Minute, 240*time.Hour)
	userID := uuid.New()

	token, _ := other.NewAccessToken(userID)
	if _, err := m.VerifyAccessToken(token); err == nil {
		t.Error("VerifyAccessToken() accepted a token signed with a different secret")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	m := newTestManager()
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := m.VerifyAccessToken(token); err == nil {
			t.Errorf("VerifyAccessToken(%q) accepted a malformed token", token)
		}
	}
}
