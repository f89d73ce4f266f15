package scoring

import (
	"encoding/json"
	"fmt"

	"github.com/skillforge/fitscore/pkg/query"
	"github.com/skillforge/fitscore/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "scoring_results", "sr").
	Project("id", "ID").
	Project("participant_id", "ParticipantID").
	Project("prof_activity_code", "ProfActivityCode").
	Project("weight_table_id", "WeightTableID").
	Project("base_score", "BaseScore").
	Project("penalty_multiplier", "PenaltyMultiplier").
	Project("final_score", "FinalScore").
	Project("penalties_applied", "PenaltiesApplied").
	Project("metrics_used", "MetricsUsed").
	Project("computed_at", "ComputedAt")

var defaultSort = []query.SortField{
	{Field: "ComputedAt", Descending: true},
}

// resultColumns matches the projection order for hand-written statements
// against scoring_results and scoring_history.
const resultColumns = "id, participant_id, prof_activity_code, weight_table_id, base_score, penalty_multiplier, final_score, penalties_applied, metrics_used, computed_at"

func scanResult(s repository.Scanner) (Result, error) {
	var res Result
	var penalties, used []byte

	err := s.Scan(
		&res.ID,
		&res.ParticipantID,
		&res.ProfActivityCode,
		&res.WeightTableID,
		&res.BaseScore,
		&res.PenaltyMultiplier,
		&res.FinalScore,
		&penalties,
		&used,
		&res.ComputedAt,
	)
	if err != nil {
		return res, err
	}

	if err := json.Unmarshal(penalties, &res.PenaltiesApplied); err != nil {
		return res, fmt.Errorf("decode penalties applied: %w", err)
	}
	if err := json.Unmarshal(used, &res.MetricsUsed); err != nil {
		return res, fmt.Errorf("decode metrics used: %w", err)
	}

	res.ScorePct = round2(res.FinalScore * 10)
	return res, nil
}
