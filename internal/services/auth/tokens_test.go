package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret)
	token, err := m.Issue("session-1", time.Hour)
	require.NoError(t, err)

	id, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", id)
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager(testSecret)
	token, err := m.Issue("session-1", time.Minute)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, errInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	m := NewTokenManager(testSecret)
	claims := jwt.RegisteredClaims{ID: "session-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, errInvalidToken)
}

func TestTokenRequiresExpiry(t *testing.T) {
	m := NewTokenManager(testSecret)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ID: "session-1"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}
