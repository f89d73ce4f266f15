package scoring

import (
	"errors"
	"net/http"
)

var (
	ErrResultNotFound      = errors.New("scoring result not found")
	ErrWeightTableNotFound = errors.New("weight table not found")
	ErrParticipantNotFound = errors.New("participant not found")

	// Batch universe resolution errors. Raised only when a nil list
	// widened to an empty set; explicit bad IDs surface as pair failures.
	ErrNoParticipants = errors.New("no participants to score")
	ErrNoWeightTables = errors.New("no active weight tables to score against")
)

// MapHTTPStatus maps scoring domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrResultNotFound),
		errors.Is(err, ErrWeightTableNotFound),
		errors.Is(err, ErrParticipantNotFound),
		errors.Is(err, ErrNoParticipants),
		errors.Is(err, ErrNoWeightTables):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
