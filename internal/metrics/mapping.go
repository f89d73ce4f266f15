package metrics

import (
	"github.com/skillforge/fitscore/pkg/query"
	"github.com/skillforge/fitscore/pkg/repository"
)

var defProjection = query.
	NewProjectionMap("public", "metric_defs", "d").
	Project("id", "ID").
	Project("code", "Code").
	Project("name", "Name").
	Project("description", "Description").
	Project("category", "Category").
	Project("active", "Active").
	Project("sort_order", "SortOrder")

var defSort = []query.SortField{
	{Field: "SortOrder"},
	{Field: "Code"},
}

var valueProjection = query.
	NewProjectionMap("public", "metric_values", "v").
	Project("id", "ID").
	Project("participant_id", "ParticipantID").
	Project("metric_code", "MetricCode").
	Project("value", "Value").
	Project("confidence", "Confidence").
	Project("source_report_id", "SourceReportID").
	Project("updated_at", "UpdatedAt")

var valueSort = []query.SortField{
	{Field: "MetricCode"},
}

func scanDef(s repository.Scanner) (Def, error) {
	var d Def
	err := s.Scan(
		&d.ID,
		&d.Code,
		&d.Name,
		&d.Description,
		&d.Category,
		&d.Active,
		&d.SortOrder,
	)
	return d, err
}

func scanValue(s repository.Scanner) (Value, error) {
	var v Value
	err := s.Scan(
		&v.ID,
		&v.ParticipantID,
		&v.MetricCode,
		&v.Value,
		&v.Confidence,
		&v.SourceReportID,
		&v.UpdatedAt,
	)
	return v, err
}
