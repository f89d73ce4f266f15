package weights

import (
	"net/url"
	"strconv"

	"github.com/skillforge/fitscore/pkg/query"
	"github.com/skillforge/fitscore/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "weight_tables", "wt").
	Project("id", "ID").
	Project("prof_activity_code", "ProfActivityCode").
	Project("name", "Name").
	Project("description", "Description").
	Project("version", "Version").
	Project("active", "Active").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = []query.SortField{
	{Field: "ProfActivityCode"},
	{Field: "Version", Descending: true},
}

// Filters contains optional filtering criteria for weight table queries.
// Nil fields are ignored. ProfActivityCode matches exactly; Name uses
// case-insensitive contains matching.
type Filters struct {
	ProfActivityCode *string `json:"prof_activity_code,omitempty"`
	Name             *string `json:"name,omitempty"`
	Active           *bool   `json:"active,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ProfActivityCode", f.ProfActivityCode).
		WhereContains("Name", f.Name).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if prof := values.Get("prof_activity_code"); prof != "" {
		f.ProfActivityCode = &prof
	}

	if name := values.Get("name"); name != "" {
		f.Name = &name
	}

	if raw := values.Get("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			f.Active = &active
		}
	}

	return f
}

func scanTable(s repository.Scanner) (Table, error) {
	var t Table
	err := s.Scan(
		&t.ID,
		&t.ProfActivityCode,
		&t.Name,
		&t.Description,
		&t.Version,
		&t.Active,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	err := s.Scan(
		&e.MetricCode,
		&e.Weight,
		&e.IsCritical,
		&e.Penalty,
		&e.Threshold,
	)
	return e, err
}
