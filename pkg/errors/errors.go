package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token expired")
	ErrTokenNotYetValid     = fmt.Errorf("token not yet valid")

	// authorization
	ErrInvalidAuthHeader = fmt.Errorf("invalid authorization header")
	ErrUnauthorized      = fmt.Errorf("unauthorized")
	ErrForbidden         = fmt.Errorf("access denied")

	// backend session
	ErrNotReady           = fmt.Errorf("backend session is not ready yet")
	ErrBackendUnavailable = fmt.Errorf("backend unavailable")

	// common
	ErrNotFound        = fmt.Errorf("request not found")
	ErrBadRequest      = fmt.Errorf("bad request")
	ErrMutationFailed  = fmt.Errorf("backend rejected the change")
	ErrInternalServer  = fmt.Errorf("internal server error")
	ErrStatusUnchanged = fmt.Errorf("new status must differ from the current status")
)

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError carries one message per failed form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// ToHttpError maps any error raised while serving a request onto the
// response code and the message shown to the user.
func ToHttpError(err error) *HttpError {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return NewHttpError(http.StatusUnprocessableEntity, "Please fill in all required fields", err, validationErr.Fields)
	}
	var inputErr *InvalidInputError
	if errors.As(err, &inputErr) {
		return NewHttpError(http.StatusBadRequest, inputErr.Message, err, nil)
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewHttpError(http.StatusNotFound, "Request not found.", err, nil)
	case errors.Is(err, ErrNotReady):
		return NewHttpError(http.StatusServiceUnavailable, "Loading, please retry shortly.", err, nil)
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenNotYetValid),
		errors.Is(err, ErrInvalidSigningMethod),
		errors.Is(err, ErrInvalidAuthHeader):
		return NewHttpError(http.StatusUnauthorized, ErrUnauthorized.Error(), err, nil)
	case errors.Is(err, ErrForbidden):
		return NewHttpError(http.StatusForbidden, ErrForbidden.Error(), err, nil)
	case errors.Is(err, ErrStatusUnchanged):
		return NewHttpError(http.StatusBadRequest, ErrStatusUnchanged.Error(), err, nil)
	case errors.Is(err, ErrBadRequest):
		return NewHttpError(http.StatusBadRequest, ErrBadRequest.Error(), err, nil)
	case errors.Is(err, ErrMutationFailed):
		return NewHttpError(http.StatusBadGateway, ErrMutationFailed.Error(), err, nil)
	case errors.Is(err, ErrBackendUnavailable):
		return NewHttpError(http.StatusBadGateway, "The service is temporarily unavailable, please try again.", err, nil)
	}
	return NewHttpError(http.StatusInternalServerError, ErrInternalServer.Error(), err, nil)
}
