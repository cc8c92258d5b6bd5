package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/pkg/tokens"
)

var secret = []byte("mw-secret")

func sign(t *testing.T, sub, role string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}).SignedString(secret)
	require.NoError(t, err)
	return tok
}

func serve(t *testing.T, mw echo.MiddlewareFunc, header string) (int, int64) {
	t.Helper()
	e := echo.New()
	var seen int64
	e.GET("/", func(c echo.Context) error {
		seen, _ = UserID(c)
		return c.NoContent(http.StatusOK)
	}, mw)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code, seen
}

func TestRequireAuth(t *testing.T) {
	m := NewBearerAuth(secret)
	valid := sign(t, "42", "user", time.Now().Add(time.Minute))

	code, id := serve(t, m.RequireAuth, "Bearer "+valid)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(42), id)

	code, _ = serve(t, m.RequireAuth, "bearer "+valid)
	assert.Equal(t, http.StatusOK, code)

	cases := map[string]string{
		"missing":      "",
		"wrong scheme": "Basic " + valid,
		"empty token":  "Bearer ",
		"expired":      "Bearer " + sign(t, "42", "user", time.Now().Add(-time.Minute)),
		"bad subject":  "Bearer " + sign(t, "ann", "user", time.Now().Add(time.Minute)),
	}
	for name, header := range cases {
		code, _ := serve(t, m.RequireAuth, header)
		assert.Equal(t, http.StatusUnauthorized, code, name)
	}
}

func TestRequireAdmin(t *testing.T) {
	m := NewBearerAuth(secret)

	code, _ := serve(t, m.RequireAdmin, "Bearer "+sign(t, "1", "user", time.Now().Add(time.Minute)))
	assert.Equal(t, http.StatusForbidden, code)

	code, id := serve(t, m.RequireAdmin, "Bearer "+sign(t, "1", "admin", time.Now().Add(time.Minute)))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), id)
}
