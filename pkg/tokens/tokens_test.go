package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.Claims, secret []byte) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func TestAccessClaimsFromToken(t *testing.T) {
	secret := []byte("access-secret")
	exp := time.Now().Add(time.Hour)
	token := sign(t, AccessClaims{
		Role:  "user",
		Email: "ann@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}, secret)

	claims, err := AccessClaimsFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "user", claims.Role)

	_, err = AccessClaimsFromToken(token, []byte("other"))
	assert.Error(t, err)
}

func TestAccessClaimsFromToken_Expired(t *testing.T) {
	secret := []byte("access-secret")
	token := sign(t, AccessClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}, secret)

	_, err := AccessClaimsFromToken(token, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestPeekAccessClaims(t *testing.T) {
	exp := time.Now().Add(-time.Minute)
	token := sign(t, AccessClaims{
		Email: "bob@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}, []byte("unknown-to-client"))

	claims, err := PeekAccessClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "bob@example.com", claims.Email)
	assert.True(t, Expired(claims, time.Now()))

	_, err = PeekAccessClaims("not-a-token")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestRefreshClaimsFromToken(t *testing.T) {
	secret := []byte("refresh-secret")
	token := sign(t, RefreshClaims{jwt.RegisteredClaims{
		Subject:   "3",
		ID:        "jti-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}, secret)

	claims, err := RefreshClaimsFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "jti-1", claims.ID)
}
