// Package metrics implements the competency metric domain for fitscore.
// It manages metric definitions, participant metric values produced by the
// extraction pipeline or manual edits, and the report-label mapping used
// to translate extracted rows into metric codes.
package metrics

import (
	"time"

	"github.com/google/uuid"
)

// Metric values are expressed on a 1-10 scale; confidence on 0-1.
const (
	MinValue      = 1.0
	MaxValue      = 10.0
	MinConfidence = 0.0
	MaxConfidence = 1.0
)

// Def represents a metric definition. Code is the stable identifier used
// by weight tables and metric values; definitions are soft-disabled via
// Active rather than deleted once values reference them.
type Def struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Active      bool      `json:"active"`
	SortOrder   int       `json:"sort_order"`
}

// Value represents a participant's current value for one metric.
// One row exists per (participant, metric code); competing writes are
// resolved by best-value priority.
type Value struct {
	ID             uuid.UUID  `json:"id"`
	ParticipantID  uuid.UUID  `json:"participant_id"`
	MetricCode     string     `json:"metric_code"`
	Value          float64    `json:"value"`
	Confidence     *float64   `json:"confidence"`
	SourceReportID *uuid.UUID `json:"source_report_id"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ParticipantMetric is one row of a participant's competency grid:
// a metric definition joined with the participant's current value.
// Metrics without a value appear with Value 0, nil Confidence, and
// HasValue false so consumers always see the full active grid.
type ParticipantMetric struct {
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	Category   *string    `json:"category"`
	Value      float64    `json:"value"`
	Confidence *float64   `json:"confidence"`
	HasValue   bool       `json:"has_value"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

// CreateDefCommand carries the data needed to create a metric definition.
type CreateDefCommand struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	SortOrder   int     `json:"sort_order"`
}

// UpdateDefCommand carries the data needed to update a metric definition.
// Code is immutable once created; values and weight entries reference it.
type UpdateDefCommand struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Active      bool    `json:"active"`
	SortOrder   int     `json:"sort_order"`
}

// SetCommand carries a manual metric value edit. Manual edits are
// authoritative: when Confidence is omitted it is stored as 1.0 and any
// source report association is cleared.
type SetCommand struct {
	Value      float64  `json:"value"`
	Confidence *float64 `json:"confidence"`
}

// IngestRow is one extracted report row keyed by its header label.
type IngestRow struct {
	Label      string   `json:"label"`
	Value      float64  `json:"value"`
	Confidence *float64 `json:"confidence"`
}

// IngestCommand carries a batch of extracted rows for one participant.
// SourceReportID identifies the upstream report the rows came from.
type IngestCommand struct {
	ParticipantID  uuid.UUID   `json:"participant_id"`
	SourceReportID *uuid.UUID  `json:"source_report_id"`
	Rows           []IngestRow `json:"rows"`
}

// IngestResult summarizes a batch ingest. Applied counts rows written;
// Skipped counts rows that lost best-value priority or failed range
// validation; UnknownLabels lists labels absent from the label map.
type IngestResult struct {
	Applied       int      `json:"applied"`
	Skipped       int      `json:"skipped"`
	UnknownLabels []string `json:"unknown_labels"`
}
