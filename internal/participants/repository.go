package participants

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/skillforge/fitscore/internal/metrics"
	"github.com/skillforge/fitscore/pkg/pagination"
	"github.com/skillforge/fitscore/pkg/query"
	"github.com/skillforge/fitscore/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a participant repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "participants"),
		pagination: pagination,
	}
}

func (r *repo) Handler(metrics metrics.System) *Handler {
	return NewHandler(r, metrics, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Participant], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereSearch(page.Search, "FullName", "Position")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanParticipant)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Participant, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanParticipant)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Participant, error) {
	if strings.TrimSpace(cmd.FullName) == "" {
		return nil, ErrInvalid
	}

	q := `
		INSERT INTO participants(full_name, external_id, position, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, full_name, external_id, position, notes, created_at, updated_at`

	args := []any{cmd.FullName, cmd.ExternalID, cmd.Position, cmd.Notes}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Participant, error) {
		return repository.QueryOne(ctx, tx, q, args, scanParticipant)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("participant created", "id", p.ID, "full_name", p.FullName)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Participant, error) {
	if strings.TrimSpace(cmd.FullName) == "" {
		return nil, ErrInvalid
	}

	q := `
		UPDATE participants
		SET full_name = $1, external_id = $2, position = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING id, full_name, external_id, position, notes, created_at, updated_at`

	args := []any{cmd.FullName, cmd.ExternalID, cmd.Position, cmd.Notes, id}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Participant, error) {
		return repository.QueryOne(ctx, tx, q, args, scanParticipant)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("participant updated", "id", p.ID, "full_name", p.FullName)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM participants WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("participant deleted", "id", id)
	return nil
}
