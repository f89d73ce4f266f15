// Package scoring implements fitness score computation for fitscore.
// A score pairs one participant's metric values with one profession
// weight table: a weighted base score, a multiplicative critical
// penalty, and a clamped final score with full calculation detail.
package scoring

import (
	"math"

	"github.com/skillforge/fitscore/internal/weights"
)

// Outcome is the result of one pure scoring pass.
type Outcome struct {
	BaseScore         float64
	PenaltyMultiplier float64
	FinalScore        float64
	ScorePct          float64
	PenaltiesApplied  []PenaltyApplied
	MetricsUsed       []MetricUsed
}

// Compute scores one participant against one weight table. It performs
// no I/O and is deterministic in its inputs.
//
// The base score is the sum of value times weight over all entries.
// A metric absent from values contributes zero; the weight denominator
// is never renormalized. Critical entries whose present value falls
// strictly below the threshold each record a penalty event and multiply
// the running multiplier by (1 - penalty); an absent value records no
// event. The base score and final score are clamped to [0,10] and
// rounded to 2 decimals, the multiplier to 4.
func Compute(values map[string]float64, table weights.Table) Outcome {
	base := 0.0
	used := make([]MetricUsed, 0, len(table.Entries))
	penalties := make([]PenaltyApplied, 0)

	for _, e := range table.Entries {
		value, present := values[e.MetricCode]
		if !present {
			used = append(used, MetricUsed{
				MetricCode: e.MetricCode,
				Weight:     e.Weight,
			})
			continue
		}

		weighted := value * e.Weight
		base += weighted

		used = append(used, MetricUsed{
			MetricCode:    e.MetricCode,
			Value:         value,
			Weight:        e.Weight,
			WeightedValue: round4(weighted),
		})
	}

	base = round2(clamp(base))

	multiplier := 1.0
	for _, e := range table.Entries {
		if !e.IsCritical {
			continue
		}

		value, present := values[e.MetricCode]
		if !present {
			continue
		}

		if value < e.Threshold {
			penalties = append(penalties, PenaltyApplied{
				MetricCode: e.MetricCode,
				Value:      value,
				Threshold:  e.Threshold,
				Penalty:    e.Penalty,
			})
			multiplier *= 1 - e.Penalty
		}
	}

	multiplier = round4(multiplier)
	final := round2(clamp(base * multiplier))

	return Outcome{
		BaseScore:         base,
		PenaltyMultiplier: multiplier,
		FinalScore:        final,
		ScorePct:          round2(final * 10),
		PenaltiesApplied:  penalties,
		MetricsUsed:       used,
	}
}

func clamp(v float64) float64 {
	return math.Min(math.Max(v, 0), 10)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
