// Package weights implements versioned per-profession weight tables for
// fitscore. A weight table assigns each metric a weight and optionally
// marks it critical with a penalty and threshold; exactly one table per
// profession activity code may be active at a time.
package weights

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// WeightSumTolerance is the allowed deviation of the entry weight
	// sum from 1.0.
	WeightSumTolerance = 0.0001

	// MaxPenalty caps a critical penalty below full score elimination.
	MaxPenalty = 0.99

	// DefaultThreshold replaces the threshold on non-critical entries.
	DefaultThreshold = 6.0
)

// Entry assigns one metric a weight within a table. Critical entries
// additionally carry a penalty applied when the participant's value
// falls below the threshold.
type Entry struct {
	MetricCode string  `json:"metric_code"`
	Weight     float64 `json:"weight"`
	IsCritical bool    `json:"is_critical"`
	Penalty    float64 `json:"penalty"`
	Threshold  float64 `json:"threshold"`
}

// Table represents one version of a profession's weight configuration.
type Table struct {
	ID               uuid.UUID `json:"id"`
	ProfActivityCode string    `json:"prof_activity_code"`
	Name             string    `json:"name"`
	Description      *string   `json:"description"`
	Version          int       `json:"version"`
	Active           bool      `json:"active"`
	Entries          []Entry   `json:"entries"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to create a weight table.
// The new table becomes the active version for its profession.
type CreateCommand struct {
	ProfActivityCode string  `json:"prof_activity_code"`
	Name             string  `json:"name"`
	Description      *string `json:"description"`
	Entries          []Entry `json:"entries"`
}

// UpdateCommand carries the data needed to update a weight table.
// Entries are replaced wholesale; updating does not bump the version.
type UpdateCommand struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Entries     []Entry `json:"entries"`
}

// ValidateEntries checks and normalizes a full entry set. Metric codes
// are lowercased, non-critical entries are forced to penalty 0 and the
// default threshold, and the weight sum must land within tolerance of
// 1.0. An empty set fails the weight-sum check. The input is returned
// normalized; nothing is persisted on error.
func ValidateEntries(entries []Entry) ([]Entry, error) {
	seen := make(map[string]bool, len(entries))
	sum := 0.0

	normalized := make([]Entry, 0, len(entries))
	for _, e := range entries {
		code := strings.ToLower(strings.TrimSpace(e.MetricCode))
		if code == "" {
			return nil, ErrIncompleteEntry
		}
		if seen[code] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMetric, code)
		}
		seen[code] = true
		e.MetricCode = code

		if e.Weight < 0 || e.Weight > 1 {
			return nil, fmt.Errorf("%w: weight %v for %s", ErrInvalidEntry, e.Weight, code)
		}

		if e.IsCritical {
			if e.Penalty < 0 || e.Penalty > MaxPenalty {
				return nil, fmt.Errorf("%w: penalty %v for %s", ErrInvalidEntry, e.Penalty, code)
			}
			if e.Threshold < 1 || e.Threshold > 10 {
				return nil, fmt.Errorf("%w: threshold %v for %s", ErrInvalidEntry, e.Threshold, code)
			}
		} else {
			e.Penalty = 0
			e.Threshold = DefaultThreshold
		}

		sum += e.Weight
		normalized = append(normalized, e)
	}

	if math.Abs(sum-1.0) > WeightSumTolerance {
		return nil, fmt.Errorf("%w: got %.4f", ErrWeightSum, sum)
	}

	return normalized, nil
}
