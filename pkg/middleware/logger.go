package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"repair-desk/pkg/contextkeys"
)

// InjectLogger makes the logger available to handlers under "logger".
func InjectLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("logger", logger)
			return next(c)
		}
	}
}

// RequestLogger tags every request with an id and logs its outcome.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			ctx := context.WithValue(c.Request().Context(), contextkeys.RequestIDKey, requestID)
			c.SetRequest(c.Request().WithContext(ctx))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info("http request",
				zap.String("request_id", requestID),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			)
			return nil
		}
	}
}
