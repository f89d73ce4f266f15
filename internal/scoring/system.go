package scoring

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for scoring operations. Each
// computation reads the participant's values and the weight table in a
// single transaction so a concurrent table update cannot tear the
// snapshot, then supersedes the stored result for the pair in place.
type System interface {
	Handler() *Handler

	Calculate(ctx context.Context, participantID, weightTableID uuid.UUID) (*Result, error)
	RecalculateParticipant(ctx context.Context, participantID uuid.UUID, weightTableIDs []uuid.UUID) (*BatchOutcome, error)
	BatchRecalculate(ctx context.Context, participantIDs, weightTableIDs []uuid.UUID) (*BatchOutcome, error)

	Find(ctx context.Context, id uuid.UUID) (*Result, error)
	ForParticipant(ctx context.Context, participantID uuid.UUID) ([]Result, error)
	History(ctx context.Context, participantID uuid.UUID, profActivityCode string, limit int) ([]Result, error)
}
