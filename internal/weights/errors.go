package weights

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound      = errors.New("weight table not found")
	ErrAlreadyExists = errors.New("weight table version already exists")

	ErrInvalidName = errors.New("weight table name is required")
	ErrInvalidProf = errors.New("profession activity code is required")

	ErrIncompleteEntry = errors.New("weight entry requires a metric code")
	ErrDuplicateMetric = errors.New("duplicate metric code in weight entries")
	ErrWeightSum       = errors.New("entry weights must sum to 1.0")
	ErrInvalidEntry    = errors.New("weight entry out of range")
)

// MapHTTPStatus maps weight table domain errors to HTTP status codes.
// Entry validation failures map to 422: the request was well-formed but
// the table it describes is not admissible.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidProf):
		return http.StatusBadRequest
	case errors.Is(err, ErrIncompleteEntry),
		errors.Is(err, ErrDuplicateMetric),
		errors.Is(err, ErrWeightSum),
		errors.Is(err, ErrInvalidEntry):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
