package weights

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillforge/fitscore/pkg/pagination"
)

// System defines the public contract for weight table operations.
// Create and Activate maintain the one-active-version-per-profession
// invariant atomically; validation is all-or-nothing so an invalid
// table is never persisted, not even partially.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Table], error)

	Find(ctx context.Context, id uuid.UUID) (*Table, error)
	FindActiveByProfession(ctx context.Context, profActivityCode string) (*Table, error)
	Create(ctx context.Context, cmd CreateCommand) (*Table, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Table, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*Table, error)
}
