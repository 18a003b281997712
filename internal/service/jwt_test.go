package service

import (
	"testing"
	"time"

	"questline/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(7, "seven@example.com")
	require.NoError(t, err)

	id, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestParseJWTRejects(t *testing.T) {
	sign := func(claims sessionClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	now := time.Now()
	valid := jwt.RegisteredClaims{
		Issuer:    jwtIssuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
	foreign := valid
	foreign.Issuer = "someone-else"
	noExpiry := valid
	noExpiry.ExpiresAt = nil

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, sessionClaims{UserID: 1, RegisteredClaims: valid}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(sessionClaims{UserID: 1, RegisteredClaims: valid}, "other-secret")},
		{"expired", sign(sessionClaims{UserID: 1, RegisteredClaims: expired}, "service-test-secret")},
		{"foreign issuer", sign(sessionClaims{UserID: 1, RegisteredClaims: foreign}, "service-test-secret")},
		{"no expiry", sign(sessionClaims{UserID: 1, RegisteredClaims: noExpiry}, "service-test-secret")},
		{"no user", sign(sessionClaims{RegisteredClaims: valid}, "service-test-secret")},
		{"alg none", none},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJWT(tt.token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}
