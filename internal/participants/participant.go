// Package participants implements the participant domain for fitscore.
// It provides types, data access, and HTTP handlers for the people whose
// competency metrics are collected and scored.
package participants

import (
	"time"

	"github.com/google/uuid"
)

// Participant represents an assessed person. ExternalID carries the
// identifier of the participant in the upstream HR system, when one exists.
type Participant struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"full_name"`
	ExternalID *string   `json:"external_id"`
	Position   *string   `json:"position"`
	Notes      *string   `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to register a participant.
type CreateCommand struct {
	FullName   string  `json:"full_name"`
	ExternalID *string `json:"external_id"`
	Position   *string `json:"position"`
	Notes      *string `json:"notes"`
}

// UpdateCommand carries the data needed to update a participant.
type UpdateCommand struct {
	FullName   string  `json:"full_name"`
	ExternalID *string `json:"external_id"`
	Position   *string `json:"position"`
	Notes      *string `json:"notes"`
}
