package metrics

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for metric domain operations.
// Definition reads are served through a cache; every definition write
// invalidates it. Value writes from the ingest path are resolved by
// best-value priority, while Set is an authoritative manual overwrite.
type System interface {
	Handler() *Handler

	ListDefs(ctx context.Context, activeOnly bool) ([]Def, error)
	FindDef(ctx context.Context, id uuid.UUID) (*Def, error)
	CreateDef(ctx context.Context, cmd CreateDefCommand) (*Def, error)
	UpdateDef(ctx context.Context, id uuid.UUID, cmd UpdateDefCommand) (*Def, error)
	DeleteDef(ctx context.Context, id uuid.UUID) error

	ForParticipant(ctx context.Context, participantID uuid.UUID) (map[string]Value, error)
	Grid(ctx context.Context, participantID uuid.UUID) ([]ParticipantMetric, error)
	Set(ctx context.Context, participantID uuid.UUID, code string, cmd SetCommand) (*Value, error)
	Ingest(ctx context.Context, cmd IngestCommand) (*IngestResult, error)
}
