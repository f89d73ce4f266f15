package scoring_test

import (
	"testing"

	"github.com/skillforge/fitscore/internal/scoring"
	"github.com/skillforge/fitscore/internal/weights"
)

func table(entries ...weights.Entry) weights.Table {
	return weights.Table{
		ProfActivityCode: "operator",
		Name:             "Operator v1",
		Version:          1,
		Active:           true,
		Entries:          entries,
	}
}

func TestComputeBaseScore(t *testing.T) {
	t.Run("weighted sum of present values", func(t *testing.T) {
		out := scoring.Compute(
			map[string]float64{"general_intellect": 8, "activity": 5},
			table(
				weights.Entry{MetricCode: "general_intellect", Weight: 0.6},
				weights.Entry{MetricCode: "activity", Weight: 0.4},
			),
		)

		if out.BaseScore != 6.8 {
			t.Errorf("base = %v, want 6.8", out.BaseScore)
		}
		if out.PenaltyMultiplier != 1.0 {
			t.Errorf("multiplier = %v, want 1.0", out.PenaltyMultiplier)
		}
		if out.FinalScore != 6.8 {
			t.Errorf("final = %v, want 6.8", out.FinalScore)
		}
		if out.ScorePct != 68 {
			t.Errorf("pct = %v, want 68", out.ScorePct)
		}
	})

	t.Run("absent metric contributes zero without renormalizing", func(t *testing.T) {
		out := scoring.Compute(
			map[string]float64{"general_intellect": 8},
			table(
				weights.Entry{MetricCode: "general_intellect", Weight: 0.6},
				weights.Entry{MetricCode: "activity", Weight: 0.4},
			),
		)

		if out.BaseScore != 4.8 {
			t.Errorf("base = %v, want 4.8", out.BaseScore)
		}
		if out.FinalScore != 4.8 {
			t.Errorf("final = %v, want 4.8", out.FinalScore)
		}
	})

	t.Run("no values yields zero base", func(t *testing.T) {
		out := scoring.Compute(
			map[string]float64{},
			table(weights.Entry{MetricCode: "general_intellect", Weight: 1.0}),
		)

		if out.BaseScore != 0 {
			t.Errorf("base = %v, want 0", out.BaseScore)
		}
		if out.ScorePct != 0 {
			t.Errorf("pct = %v, want 0", out.ScorePct)
		}
	})

	t.Run("base clamped to upper bound", func(t *testing.T) {
		out := scoring.Compute(
			map[string]float64{"general_intellect": 10},
			table(weights.Entry{MetricCode: "general_intellect", Weight: 1.2}),
		)

		if out.BaseScore != 10 {
			t.Errorf("base = %v, want 10 after clamp", out.BaseScore)
		}
	})

	t.Run("base rounded to two decimals", func(t *testing.T) {
		out := scoring.Compute(
			map[string]float64{"general_intellect": 7.77, "activity": 5.55},
			table(
				weights.Entry{MetricCode: "general_intellect", Weight: 0.6},
				weights.Entry{MetricCode: "activity", Weight: 0.4},
			),
		)

		if out.BaseScore != 6.88 {
			t.Errorf("base = %v, want 6.88", out.BaseScore)
		}
	})
}

func TestComputePenalties(t *testing.T) {
	t.Run("critical below threshold applies penalty", func(t *testing.T) {
		out := scoring.Compute(
			map[string]float64{"general_intellect": 8, "health": 4},
			table(
				weights.Entry{MetricCode: "general_intellect", Weight: 0.8},
				weights.Entry{MetricCode: "health", Weight: 0.2, IsCritical: true, Penalty: 0.3, Threshold: 6.0},
			),
		)

		if out.PenaltyMultiplier != 0.7 {
			t.Errorf("multiplier = %v, want 0.7", out.PenaltyMultiplier)
		}
		if len(out.PenaltiesApplied) != 1 {
			t.Fatalf("penalties = %d, want 1", len(out.PenaltiesApplied))
		}

		p := out.PenaltiesApplied[0]
		if p.MetricCode != "health" {
			t.Errorf("metric = %q, want health", p.MetricCode)
		}
		if p.Value != 4 || p.Threshold != 6.0 || p.Penalty != 0.3 {
			t.Errorf("event = %+v, want value 4 threshold 6 penalty 0.3", p)
		}
	})

	t.Run("penalties compound multiplicatively", func(t *testing.T) {
		out := scoring.Compute(
			map[string]float64{"health": 4, "stress_tolerance": 3},
			table(
				weights.Entry{MetricCode: "health", Weight: 0.5, IsCritical: true, Penalty: 0.3, Threshold: 6.0},
				weights.Entry{MetricCode: "stress_tolerance", Weight: 0.5, IsCritical: true, Penalty: 0.2, Threshold: 6.0},
			),
		)

		if out.PenaltyMultiplier != 0.56 {
			t.Errorf("multiplier = %v, want 0.56", out.PenaltyMultiplier)
		}
		if len(out.PenaltiesApplied) != 2 {
			t.Errorf("penalties = %d, want 2", len(out.PenaltiesApplied))
		}
	})

	t.Run("value at threshold passes", func(t *testing.T) {
		out := scoring.Compute(
			map[string]float64{"health": 6.0},
			table(
				weights.Entry{MetricCode: "health", Weight: 1.0, IsCritical: true, Penalty: 0.3, Threshold: 6.0},
			),
		)

		if out.PenaltyMultiplier != 1.0 {
			t.Errorf("multiplier = %v, want 1.0", out.PenaltyMultiplier)
		}
		if len(out.PenaltiesApplied) != 0 {
			t.Errorf("penalties = %d, want 0", len(out.PenaltiesApplied))
		}
	})

	t.Run("absent critical value records no event", func(t *testing.T) {
		out := scoring.Compute(
			map[string]float64{"general_intellect": 8},
			table(
				weights.Entry{MetricCode: "general_intellect", Weight: 0.5},
				weights.Entry{MetricCode: "health", Weight: 0.5, IsCritical: true, Penalty: 0.3, Threshold: 6.0},
			),
		)

		if out.PenaltyMultiplier != 1.0 {
			t.Errorf("multiplier = %v, want 1.0", out.PenaltyMultiplier)
		}
		if len(out.PenaltiesApplied) != 0 {
			t.Errorf("penalties = %d, want 0", len(out.PenaltiesApplied))
		}
	})

	t.Run("zero penalty still records the event", func(t *testing.T) {
		out := scoring.Compute(
			map[string]float64{"health": 4},
			table(
				weights.Entry{MetricCode: "health", Weight: 1.0, IsCritical: true, Penalty: 0, Threshold: 6.0},
			),
		)

		if out.PenaltyMultiplier != 1.0 {
			t.Errorf("multiplier = %v, want 1.0", out.PenaltyMultiplier)
		}
		if len(out.PenaltiesApplied) != 1 {
			t.Fatalf("penalties = %d, want 1", len(out.PenaltiesApplied))
		}
		if out.PenaltiesApplied[0].Penalty != 0 {
			t.Errorf("penalty = %v, want 0", out.PenaltiesApplied[0].Penalty)
		}
	})

	t.Run("multiplier rounded to four decimals", func(t *testing.T) {
		out := scoring.Compute(
			map[string]float64{"health": 1, "stress_tolerance": 1, "sensitivity": 1},
			table(
				weights.Entry{MetricCode: "health", Weight: 0.4, IsCritical: true, Penalty: 0.1, Threshold: 6.0},
				weights.Entry{MetricCode: "stress_tolerance", Weight: 0.3, IsCritical: true, Penalty: 0.2, Threshold: 6.0},
				weights.Entry{MetricCode: "sensitivity", Weight: 0.3, IsCritical: true, Penalty: 0.3, Threshold: 6.0},
			),
		)

		if out.PenaltyMultiplier != 0.504 {
			t.Errorf("multiplier = %v, want 0.504", out.PenaltyMultiplier)
		}
	})

	t.Run("final score applies multiplier then rounds", func(t *testing.T) {
		out := scoring.Compute(
			map[string]float64{"general_intellect": 8, "activity": 5, "health": 4, "stress_tolerance": 3},
			table(
				weights.Entry{MetricCode: "general_intellect", Weight: 0.6},
				weights.Entry{MetricCode: "activity", Weight: 0.4},
				weights.Entry{MetricCode: "health", Weight: 0, IsCritical: true, Penalty: 0.3, Threshold: 6.0},
				weights.Entry{MetricCode: "stress_tolerance", Weight: 0, IsCritical: true, Penalty: 0.2, Threshold: 6.0},
			),
		)

		if out.BaseScore != 6.8 {
			t.Errorf("base = %v, want 6.8", out.BaseScore)
		}
		if out.PenaltyMultiplier != 0.56 {
			t.Errorf("multiplier = %v, want 0.56", out.PenaltyMultiplier)
		}
		if out.FinalScore != 3.81 {
			t.Errorf("final = %v, want 3.81", out.FinalScore)
		}
		if out.ScorePct != 38.1 {
			t.Errorf("pct = %v, want 38.1", out.ScorePct)
		}
	})
}

func TestComputeMetricsUsed(t *testing.T) {
	out := scoring.Compute(
		map[string]float64{"general_intellect": 8},
		table(
			weights.Entry{MetricCode: "general_intellect", Weight: 0.6},
			weights.Entry{MetricCode: "activity", Weight: 0.4},
		),
	)

	if len(out.MetricsUsed) != 2 {
		t.Fatalf("metrics used = %d, want 2", len(out.MetricsUsed))
	}

	present := out.MetricsUsed[0]
	if present.MetricCode != "general_intellect" {
		t.Errorf("metric = %q, want general_intellect", present.MetricCode)
	}
	if present.Value != 8 || present.Weight != 0.6 {
		t.Errorf("entry = %+v, want value 8 weight 0.6", present)
	}
	if present.WeightedValue != 4.8 {
		t.Errorf("weighted = %v, want 4.8", present.WeightedValue)
	}

	absent := out.MetricsUsed[1]
	if absent.MetricCode != "activity" {
		t.Errorf("metric = %q, want activity", absent.MetricCode)
	}
	if absent.Value != 0 || absent.WeightedValue != 0 {
		t.Errorf("entry = %+v, want zero value and weighted value", absent)
	}
	if absent.Weight != 0.4 {
		t.Errorf("weight = %v, want 0.4", absent.Weight)
	}
}

func TestComputeEmptyTable(t *testing.T) {
	out := scoring.Compute(map[string]float64{"general_intellect": 8}, table())

	if out.BaseScore != 0 {
		t.Errorf("base = %v, want 0", out.BaseScore)
	}
	if out.PenaltyMultiplier != 1.0 {
		t.Errorf("multiplier = %v, want 1.0", out.PenaltyMultiplier)
	}
	if len(out.MetricsUsed) != 0 {
		t.Errorf("metrics used = %d, want 0", len(out.MetricsUsed))
	}
	if out.PenaltiesApplied == nil || out.MetricsUsed == nil {
		t.Error("detail slices should be empty, not nil")
	}
}
