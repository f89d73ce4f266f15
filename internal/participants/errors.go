package participants

import (
	"errors"
	"net/http"
)

// Domain errors for participant operations.
var (
	ErrNotFound  = errors.New("participant not found")
	ErrDuplicate = errors.New("participant external id already exists")
	ErrInvalid   = errors.New("participant full name is required")
)

// MapHTTPStatus maps participant domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalid) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
