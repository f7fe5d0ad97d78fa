package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/infrastructure/config"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestValidator() *Validator {
	return NewValidator(config.JWTConfig{Enabled: true, Secret: testSecret, Issuer: "carbon-test"})
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "carbon-test",
			Subject:   "user",
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
		},
		CompanyID: uuid.New().String(),
		UserID:    uuid.New().String(),
		Email:     "ops@example.com",
	}
}

func TestValidator_Validate(t *testing.T) {
	v := newTestValidator()
	claims := validClaims()

	got, err := v.Validate(sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
	require.NoError(t, err)
	assert.Equal(t, claims.CompanyID, got.CompanyUUID().String())
	assert.Equal(t, claims.UserID, got.UserUUID().String())
	assert.Greater(t, got.RemainingTTL(), 14*time.Minute)
}

func TestValidator_Rejects(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name   string
		token  func() string
		expect error
	}{
		{
			name:   "garbage",
			token:  func() string { return "not-a-token" },
			expect: ErrInvalidToken,
		},
		{
			name: "wrong secret",
			token: func() string {
				return sign(t, jwt.SigningMethodHS256, []byte("another-secret-key-32-characters"), validClaims())
			},
			expect: ErrInvalidToken,
		},
		{
			name: "expired",
			token: func() string {
				c := validClaims()
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			expect: ErrExpiredToken,
		},
		{
			name: "not yet valid",
			token: func() string {
				c := validClaims()
				c.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			expect: ErrTokenNotYetValid,
		},
		{
			name: "wrong issuer",
			token: func() string {
				c := validClaims()
				c.Issuer = "someone-else"
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			expect: ErrInvalidToken,
		},
		{
			name: "other hmac algorithm",
			token: func() string {
				return sign(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())
			},
			expect: ErrInvalidToken,
		},
		{
			name: "missing company",
			token: func() string {
				c := validClaims()
				c.CompanyID = ""
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			expect: ErrMissingCompanyID,
		},
		{
			name: "malformed user",
			token: func() string {
				c := validClaims()
				c.UserID = "bob"
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			expect: ErrMissingUserID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.token())
			assert.ErrorIs(t, err, tt.expect)
		})
	}
}

func TestValidator_NoIssuerConfigured(t *testing.T) {
	v := NewValidator(config.JWTConfig{Secret: testSecret})
	c := validClaims()
	c.Issuer = "anyone"

	_, err := v.Validate(sign(t, jwt.SigningMethodHS256, []byte(testSecret), c))
	assert.NoError(t, err)
}

func TestClaims_RemainingTTL(t *testing.T) {
	assert.Zero(t, (&Claims{}).RemainingTTL())

	c := validClaims()
	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	assert.Zero(t, c.RemainingTTL())
}
