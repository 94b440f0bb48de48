package utils

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

// ContextWithTimeout bounds a handler's backend work by timeout.
func ContextWithTimeout(c echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), timeout)
}
