package api

import (
	"fmt"

	"github.com/skillforge/fitscore/internal/config"
	"github.com/skillforge/fitscore/internal/metrics"
	"github.com/skillforge/fitscore/internal/participants"
	"github.com/skillforge/fitscore/internal/scoring"
	"github.com/skillforge/fitscore/internal/weights"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Participants participants.System
	Metrics      metrics.System
	Weights      weights.System
	Scoring      scoring.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	labels, err := metrics.LoadLabelMap(cfg.Metrics.LabelMapPath)
	if err != nil {
		return nil, fmt.Errorf("label map load failed: %w", err)
	}

	metricsSystem := metrics.New(
		runtime.Database.Connection(),
		runtime.Logger,
		labels,
	)

	participantsSystem := participants.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	weightsSystem := weights.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	scoringSystem := scoring.New(
		runtime.Database.Connection(),
		runtime.Logger,
		cfg.Scoring.Workers,
	)

	return &Domain{
		Participants: participantsSystem,
		Metrics:      metricsSystem,
		Weights:      weightsSystem,
		Scoring:      scoringSystem,
	}, nil
}
