package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-desk/internal/entities"
	"repair-desk/pkg/api"
	apperrors "repair-desk/pkg/errors"
	"repair-desk/pkg/service"
	"repair-desk/pkg/utils"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtSvc, logger: logger}
}

// Identity attaches the caller to the request context. A request without an
// Authorization header is anonymous; a malformed or invalid one is rejected.
func (m *AuthMiddleware) Identity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return next(c)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			m.logger.Debug("malformed authorization header")
			return api.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Debug("identity token rejected", zap.Error(err))
			return api.ErrorResponse(c, err, m.logger)
		}

		caller := entities.Caller{Principal: entities.Principal(claims.Principal()), Token: parts[1]}
		c.SetRequest(c.Request().WithContext(utils.WithCaller(c.Request().Context(), caller)))
		return next(c)
	}
}
