package participants

import (
	"net/url"

	"github.com/skillforge/fitscore/pkg/query"
	"github.com/skillforge/fitscore/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "participants", "p").
	Project("id", "ID").
	Project("full_name", "FullName").
	Project("external_id", "ExternalID").
	Project("position", "Position").
	Project("notes", "Notes").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = []query.SortField{
	{Field: "FullName"},
	{Field: "ID"},
}

// Filters contains optional filtering criteria for participant queries.
// Nil fields are ignored. ExternalID uses exact matching; FullName uses
// case-insensitive contains matching.
type Filters struct {
	FullName   *string `json:"full_name,omitempty"`
	ExternalID *string `json:"external_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("FullName", f.FullName).
		WhereEquals("ExternalID", f.ExternalID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if fn := values.Get("full_name"); fn != "" {
		f.FullName = &fn
	}

	if eid := values.Get("external_id"); eid != "" {
		f.ExternalID = &eid
	}

	return f
}

func scanParticipant(s repository.Scanner) (Participant, error) {
	var p Participant
	err := s.Scan(
		&p.ID,
		&p.FullName,
		&p.ExternalID,
		&p.Position,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
