package metrics

import (
	"errors"
	"net/http"
)

var (
	ErrDefNotFound   = errors.New("metric definition not found")
	ErrDefDuplicate  = errors.New("metric code already exists")
	ErrValueNotFound = errors.New("metric value not found")

	ErrParticipantNotFound = errors.New("participant not found")

	ErrInvalidCode       = errors.New("metric code is required")
	ErrInvalidName       = errors.New("metric name is required")
	ErrInvalidValue      = errors.New("metric value must be between 1 and 10")
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")
	ErrNoRows            = errors.New("ingest requires at least one row")
)

// MapHTTPStatus maps metric domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrDefNotFound),
		errors.Is(err, ErrValueNotFound),
		errors.Is(err, ErrParticipantNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDefDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCode),
		errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidValue),
		errors.Is(err, ErrInvalidConfidence),
		errors.Is(err, ErrNoRows):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
