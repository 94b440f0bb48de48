package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repair-desk/pkg/service"
	"repair-desk/pkg/utils"
)

func serve(t *testing.T, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	jwtSvc := service.NewJWTService("secret", "", time.Hour)
	m := NewAuthMiddleware(jwtSvc, zap.NewNop())

	e := echo.New()
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = string(utils.GetCallerFromCtx(c.Request().Context()).Principal)
		return c.NoContent(http.StatusOK)
	}, m.Identity)

	if header == "valid" {
		token, err := jwtSvc.GenerateToken("abc")
		require.NoError(t, err)
		header = "Bearer " + token
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestIdentity(t *testing.T) {
	rec, principal := serve(t, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2vxsx-fae", principal, "no header means anonymous")

	rec, principal = serve(t, "valid")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", principal)

	rec, _ = serve(t, "Token xyz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(t, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
