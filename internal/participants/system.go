package participants

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillforge/fitscore/internal/metrics"
	"github.com/skillforge/fitscore/pkg/pagination"
)

// System defines the public contract for participant domain operations.
type System interface {
	Handler(metrics metrics.System) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Participant], error)

	Find(ctx context.Context, id uuid.UUID) (*Participant, error)
	Create(ctx context.Context, cmd CreateCommand) (*Participant, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Participant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
