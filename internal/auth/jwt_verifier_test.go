package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drive/internal/domain"
	models "drive/internal/domain/models/drive"
)

func newTestVerifier(t *testing.T) (*JWKSVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	kf := func(token *jwt.Token) (any, error) {
		return &key.PublicKey, nil
	}
	return NewKeyfuncVerifier(kf, slog.New(slog.NewTextHandler(io.Discard, nil))), key
}

func validClaims() *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: roleAuthenticated,
	}
}

func sign(t *testing.T, key *rsa.PrivateKey, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestVerifyToken(t *testing.T) {
	verifier, key := newTestVerifier(t)

	claims, err := verifier.VerifyToken(sign(t, key, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, models.Actor{ID: "user-1"}, claims.Actor())
}

func TestVerifyToken_AdminRole(t *testing.T) {
	verifier, key := newTestVerifier(t)

	c := validClaims()
	c.AppMetadata.DriveRole = models.RoleAdmin
	claims, err := verifier.VerifyToken(sign(t, key, c))
	require.NoError(t, err)
	assert.True(t, claims.Actor().IsAdmin())
}

func TestVerifyToken_Rejects(t *testing.T) {
	verifier, key := newTestVerifier(t)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	hmacToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong key", sign(t, otherKey, validClaims())},
		{"hmac algorithm", hmacToken},
		{"expired", sign(t, key, func() *Claims {
			c := validClaims()
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
			return c
		}())},
		{"no expiry", sign(t, key, func() *Claims {
			c := validClaims()
			c.ExpiresAt = nil
			return c
		}())},
		{"missing subject", sign(t, key, func() *Claims {
			c := validClaims()
			c.Subject = ""
			return c
		}())},
		{"anonymous role", sign(t, key, func() *Claims {
			c := validClaims()
			c.Role = "anon"
			return c
		}())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.VerifyToken(tt.token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}
