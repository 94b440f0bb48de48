package utils

import (
	"strconv"
	"strings"

	apperrors "repair-desk/pkg/errors"
)

// ParseRequestID accepts a decimal request id as typed by a customer,
// surrounding whitespace allowed.
func ParseRequestID(raw string) (uint64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, apperrors.NewInvalidInputError("Please enter a request ID")
	}
	id, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, apperrors.NewInvalidInputError("Request ID must be a number")
	}
	return id, nil
}
