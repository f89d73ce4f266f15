package scoring

import (
	"time"

	"github.com/google/uuid"
)

// Result represents a stored scoring result. One current row exists per
// (participant, profession activity code) pair; recomputation supersedes
// it in place while the prior row is preserved in history. ScorePct is
// derived from FinalScore on the 0-100 scale and is not stored.
type Result struct {
	ID                uuid.UUID        `json:"id"`
	ParticipantID     uuid.UUID        `json:"participant_id"`
	ProfActivityCode  string           `json:"prof_activity_code"`
	WeightTableID     *uuid.UUID       `json:"weight_table_id"`
	BaseScore         float64          `json:"base_score"`
	PenaltyMultiplier float64          `json:"penalty_multiplier"`
	FinalScore        float64          `json:"final_score"`
	ScorePct          float64          `json:"score_pct"`
	PenaltiesApplied  []PenaltyApplied `json:"penalties_applied"`
	MetricsUsed       []MetricUsed     `json:"metrics_used"`
	ComputedAt        time.Time        `json:"computed_at"`
}

// PenaltyApplied records one critical penalty event. Events are recorded
// whenever a present value falls below the threshold, including events
// whose penalty is zero.
type PenaltyApplied struct {
	MetricCode string  `json:"metric_code"`
	Value      float64 `json:"value"`
	Threshold  float64 `json:"threshold"`
	Penalty    float64 `json:"penalty"`
}

// MetricUsed records one entry's contribution to the base score.
// Entries without a stored value appear with Value 0 and WeightedValue 0.
type MetricUsed struct {
	MetricCode    string  `json:"metric_code"`
	Value         float64 `json:"value"`
	Weight        float64 `json:"weight"`
	WeightedValue float64 `json:"weighted_value"`
}

// CalculateCommand requests one score computation.
type CalculateCommand struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	WeightTableID uuid.UUID `json:"weight_table_id"`
}

// RecalculateCommand requests recomputation for one participant. A nil
// or empty table list means every active weight table.
type RecalculateCommand struct {
	ParticipantID  uuid.UUID   `json:"participant_id"`
	WeightTableIDs []uuid.UUID `json:"weight_table_ids"`
}

// BatchCommand requests recomputation over a cartesian set of pairs.
// Nil lists widen to all participants and all active weight tables.
type BatchCommand struct {
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
	WeightTableIDs []uuid.UUID `json:"weight_table_ids"`
}

// PairFailure records one failed (participant, weight table) pair in a
// batch. ProfActivityCode is empty when the weight table itself could
// not be resolved.
type PairFailure struct {
	ParticipantID    uuid.UUID `json:"participant_id"`
	WeightTableID    uuid.UUID `json:"weight_table_id"`
	ProfActivityCode string    `json:"prof_activity_code,omitempty"`
	Err              string    `json:"error"`
}

// BatchOutcome summarizes a batch recomputation. Pair failures are data,
// not batch errors: successful pairs commit regardless.
type BatchOutcome struct {
	Calculated int           `json:"calculated"`
	Failed     int           `json:"failed"`
	Results    []Result      `json:"results"`
	Failures   []PairFailure `json:"failures"`
}
