package weights

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/skillforge/fitscore/pkg/pagination"
	"github.com/skillforge/fitscore/pkg/query"
	"github.com/skillforge/fitscore/pkg/repository"
)

const tableColumns = "id, prof_activity_code, name, description, version, active, created_at, updated_at"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a weight table repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "weights"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Table], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereSearch(page.Search, "Name", "ProfActivityCode")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count weight tables: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	tables, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTable)
	if err != nil {
		return nil, fmt.Errorf("query weight tables: %w", err)
	}

	if err := r.attachEntries(ctx, r.db, tables); err != nil {
		return nil, err
	}

	result := pagination.NewPageResult(tables, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Table, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTable)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	if t.Entries, err = r.loadEntries(ctx, r.db, t.ID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) FindActiveByProfession(ctx context.Context, profActivityCode string) (*Table, error) {
	prof := normalizeProf(profActivityCode)
	if prof == "" {
		return nil, ErrInvalidProf
	}

	active := true
	q, args := query.
		NewBuilder(projection).
		WhereEquals("ProfActivityCode", &prof).
		WhereEquals("Active", &active).
		BuildSingleOrNull()

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTable)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	if t.Entries, err = r.loadEntries(ctx, r.db, t.ID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Table, error) {
	prof := normalizeProf(cmd.ProfActivityCode)
	if prof == "" {
		return nil, ErrInvalidProf
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, ErrInvalidName
	}

	entries, err := ValidateEntries(cmd.Entries)
	if err != nil {
		return nil, err
	}

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Table, error) {
		// The new version supersedes any currently active table for the
		// profession within the same transaction.
		if _, err := tx.ExecContext(ctx,
			"UPDATE weight_tables SET active = false, updated_at = NOW() WHERE prof_activity_code = $1 AND active",
			prof,
		); err != nil {
			return Table{}, fmt.Errorf("deactivate prior version: %w", err)
		}

		var version int
		if err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(version), 0) + 1 FROM weight_tables WHERE prof_activity_code = $1",
			prof,
		).Scan(&version); err != nil {
			return Table{}, fmt.Errorf("next version: %w", err)
		}

		q := fmt.Sprintf(`
			INSERT INTO weight_tables(prof_activity_code, name, description, version, active)
			VALUES ($1, $2, $3, $4, true)
			RETURNING %s`, tableColumns)

		created, err := repository.QueryOne(
			ctx, tx, q,
			[]any{prof, cmd.Name, cmd.Description, version},
			scanTable,
		)
		if err != nil {
			return Table{}, err
		}

		if err := insertEntries(ctx, tx, created.ID, entries); err != nil {
			return Table{}, err
		}

		created.Entries = entries
		return created, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	r.logger.Info("weight table created",
		"id", t.ID,
		"prof_activity_code", t.ProfActivityCode,
		"version", t.Version,
	)
	return &t, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Table, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, ErrInvalidName
	}

	entries, err := ValidateEntries(cmd.Entries)
	if err != nil {
		return nil, err
	}

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Table, error) {
		q := fmt.Sprintf(`
			UPDATE weight_tables
			SET name = $1, description = $2, updated_at = NOW()
			WHERE id = $3
			RETURNING %s`, tableColumns)

		updated, err := repository.QueryOne(
			ctx, tx, q,
			[]any{cmd.Name, cmd.Description, id},
			scanTable,
		)
		if err != nil {
			return Table{}, err
		}

		// Entries are replaced wholesale so the stored set always
		// matches one validated submission.
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM weight_entries WHERE weight_table_id = $1",
			id,
		); err != nil {
			return Table{}, fmt.Errorf("clear weight entries: %w", err)
		}

		if err := insertEntries(ctx, tx, updated.ID, entries); err != nil {
			return Table{}, err
		}

		updated.Entries = entries
		return updated, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	r.logger.Info("weight table updated", "id", t.ID, "prof_activity_code", t.ProfActivityCode)
	return &t, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM weight_tables WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	r.logger.Info("weight table deleted", "id", id)
	return nil
}

func (r *repo) Activate(ctx context.Context, id uuid.UUID) (*Table, error) {
	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Table, error) {
		var prof string
		err := tx.QueryRowContext(ctx,
			"SELECT prof_activity_code FROM weight_tables WHERE id = $1 FOR UPDATE",
			id,
		).Scan(&prof)
		if err != nil {
			return Table{}, err
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE weight_tables SET active = false, updated_at = NOW() WHERE prof_activity_code = $1 AND active AND id <> $2",
			prof, id,
		); err != nil {
			return Table{}, fmt.Errorf("deactivate current version: %w", err)
		}

		q := fmt.Sprintf(`
			UPDATE weight_tables
			SET active = true, updated_at = NOW()
			WHERE id = $1
			RETURNING %s`, tableColumns)

		activated, err := repository.QueryOne(ctx, tx, q, []any{id}, scanTable)
		if err != nil {
			return Table{}, err
		}

		if activated.Entries, err = r.loadEntries(ctx, tx, activated.ID); err != nil {
			return Table{}, err
		}
		return activated, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrAlreadyExists)
	}

	r.logger.Info("weight table activated",
		"id", t.ID,
		"prof_activity_code", t.ProfActivityCode,
		"version", t.Version,
	)
	return &t, nil
}

func (r *repo) loadEntries(ctx context.Context, q repository.Querier, tableID uuid.UUID) ([]Entry, error) {
	entries, err := repository.QueryMany(
		ctx, q,
		`SELECT metric_code, weight, is_critical, penalty, threshold
		FROM weight_entries
		WHERE weight_table_id = $1
		ORDER BY metric_code`,
		[]any{tableID},
		scanEntry,
	)
	if err != nil {
		return nil, fmt.Errorf("query weight entries: %w", err)
	}
	return entries, nil
}

type ownedEntry struct {
	tableID uuid.UUID
	entry   Entry
}

// attachEntries loads entries for a page of tables in one query.
func (r *repo) attachEntries(ctx context.Context, q repository.Querier, tables []Table) error {
	if len(tables) == 0 {
		return nil
	}

	placeholders := make([]string, len(tables))
	args := make([]any, len(tables))
	for i, t := range tables {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = t.ID
	}

	owned, err := repository.QueryMany(
		ctx, q,
		fmt.Sprintf(`SELECT weight_table_id, metric_code, weight, is_critical, penalty, threshold
		FROM weight_entries
		WHERE weight_table_id IN (%s)
		ORDER BY metric_code`, strings.Join(placeholders, ", ")),
		args,
		func(s repository.Scanner) (ownedEntry, error) {
			var o ownedEntry
			err := s.Scan(
				&o.tableID,
				&o.entry.MetricCode,
				&o.entry.Weight,
				&o.entry.IsCritical,
				&o.entry.Penalty,
				&o.entry.Threshold,
			)
			return o, err
		},
	)
	if err != nil {
		return fmt.Errorf("query weight entries: %w", err)
	}

	byTable := make(map[uuid.UUID][]Entry, len(tables))
	for _, o := range owned {
		byTable[o.tableID] = append(byTable[o.tableID], o.entry)
	}

	for i := range tables {
		tables[i].Entries = byTable[tables[i].ID]
	}
	return nil
}

func insertEntries(ctx context.Context, tx *sql.Tx, tableID uuid.UUID, entries []Entry) error {
	for _, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO weight_entries(weight_table_id, metric_code, weight, is_critical, penalty, threshold)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			tableID, e.MetricCode, e.Weight, e.IsCritical, e.Penalty, e.Threshold,
		)
		if err != nil {
			return fmt.Errorf("insert weight entry %s: %w", e.MetricCode, err)
		}
	}
	return nil
}

func normalizeProf(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
