package scoring

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/skillforge/fitscore/pkg/repository"
)

// runBatch computes the cartesian pairs concurrently on a bounded group.
// Each pair runs in its own transaction; a pair failure is recorded in
// the outcome and never aborts the batch. Context cancellation stops
// dispatching new pairs, leaving already committed pairs in place.
func (r *repo) runBatch(ctx context.Context, participantIDs, tableIDs []uuid.UUID) (*BatchOutcome, error) {
	outcome := &BatchOutcome{
		Results:  make([]Result, 0, len(participantIDs)*len(tableIDs)),
		Failures: make([]PairFailure, 0),
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(r.workers)

dispatch:
	for _, pid := range participantIDs {
		for _, tid := range tableIDs {
			if ctx.Err() != nil {
				break dispatch
			}

			g.Go(func() error {
				res, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Result, error) {
					return r.calculateTx(ctx, tx, pid, tid)
				})

				mu.Lock()
				defer mu.Unlock()

				if err != nil {
					outcome.Failed++
					outcome.Failures = append(outcome.Failures, PairFailure{
						ParticipantID:    pid,
						WeightTableID:    tid,
						ProfActivityCode: pairProf(err),
						Err:              err.Error(),
					})
					return nil
				}

				outcome.Calculated++
				outcome.Results = append(outcome.Results, res)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Info("batch recalculation finished",
		"participants", len(participantIDs),
		"weight_tables", len(tableIDs),
		"calculated", outcome.Calculated,
		"failed", outcome.Failed,
	)
	return outcome, nil
}

func pairProf(err error) string {
	var pe *pairError
	if errors.As(err, &pe) {
		return pe.prof
	}
	return ""
}
