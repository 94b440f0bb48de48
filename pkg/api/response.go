package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "repair-desk/pkg/errors"
)

type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Body    T      `json:"body,omitempty"`
}

type ListBody[T any] struct {
	List       []T `json:"list"`
	TotalCount int `json:"total_count"`
}

// SuccessOne returns a single object.
func SuccessOne[T any](c echo.Context, code int, message string, data T) error {
	return c.JSON(code, Response[T]{
		Status:  true,
		Message: message,
		Body:    data,
	})
}

func SuccessList[T any](c echo.Context, message string, list []T) error {
	if list == nil {
		list = make([]T, 0)
	}

	return c.JSON(http.StatusOK, Response[ListBody[T]]{
		Status:  true,
		Message: message,
		Body:    ListBody[T]{List: list, TotalCount: len(list)},
	})
}

// ErrorResponse writes the user-facing part of err. Details (per-field
// validation messages) are passed through; wrapped causes are only logged.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	httpErr := apperrors.ToHttpError(err)

	if logger != nil {
		fields := []zap.Field{
			zap.Int("code", httpErr.Code),
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err),
		}
		if httpErr.Code >= http.StatusInternalServerError && httpErr.Code != http.StatusServiceUnavailable {
			logger.Error("request failed", fields...)
		} else {
			logger.Debug("request rejected", fields...)
		}
	}

	if httpErr.Code == http.StatusServiceUnavailable {
		c.Response().Header().Set("Retry-After", "1")
	}

	return c.JSON(httpErr.Code, Response[any]{
		Status:  false,
		Message: httpErr.Message,
		Body:    httpErr.Details,
	})
}
