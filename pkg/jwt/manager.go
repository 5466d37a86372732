package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager signs and verifies the access/refresh token pair. The two token
// kinds use separate secrets so an access token can never be replayed as a
// refresh token.
type Manager struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (m *Manager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

// NewAccessToken generates a short-lived JWT carrying the user ID as its
// subject.
func (m *Manager) NewAccessToken(userID uuid.UUID) (string, error) {
	return m.sign(userID, m.accessSecret, m.accessTTL)
}

// NewRefreshToken generates the long-lived counterpart. The caller is
// responsible for persisting it on the user record.
func (m *Manager) NewRefreshToken(userID uuid.UUID) (string, error) {
	return m.sign(userID, m.refreshSecret, m.refreshTTL)
}

func (m *Manager) sign(userID uuid.UUID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken verifies signature and expiry and returns the encoded
// user ID.
func (m *Manager) VerifyAccessToken(tokenString string) (uuid.UUID, error) {
	return m.verify(tokenString, m.accessSecret)
}

// VerifyRefreshToken does the same for refresh tokens.
func (m *Manager) VerifyRefreshToken(tokenString string) (uuid.UUID, error) {
	return m.verify(tokenString, m.refreshSecret)
}

func (m *Manager) verify(tokenString, secret string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, jwt.ErrTokenMalformed
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, jwt.ErrTokenMalformed
	}
	return userID, nil
}
