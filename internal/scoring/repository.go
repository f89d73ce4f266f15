package scoring

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/skillforge/fitscore/internal/weights"
	"github.com/skillforge/fitscore/pkg/query"
	"github.com/skillforge/fitscore/pkg/repository"
)

const (
	historyDefaultLimit = 20
	historyMaxLimit     = 100
)

type repo struct {
	db      *sql.DB
	logger  *slog.Logger
	workers int
}

// New creates a scoring repository implementing the System interface.
// workers bounds batch concurrency.
func New(db *sql.DB, logger *slog.Logger, workers int) System {
	if workers < 1 {
		workers = 1
	}
	return &repo{
		db:      db,
		logger:  logger.With("system", "scoring"),
		workers: workers,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Calculate(ctx context.Context, participantID, weightTableID uuid.UUID) (*Result, error) {
	res, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Result, error) {
		return r.calculateTx(ctx, tx, participantID, weightTableID)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("score calculated",
		"participant_id", res.ParticipantID,
		"prof_activity_code", res.ProfActivityCode,
		"final_score", res.FinalScore,
		"penalties", len(res.PenaltiesApplied),
	)
	return &res, nil
}

// calculateTx performs one full computation inside the caller's
// transaction: snapshot reads of the weight table and the participant's
// values, the pure computation, the history copy of any superseded row,
// and the upsert of the new result.
func (r *repo) calculateTx(ctx context.Context, tx *sql.Tx, participantID, weightTableID uuid.UUID) (Result, error) {
	var zero Result

	exists, err := repository.Exists(
		ctx, tx,
		"SELECT EXISTS (SELECT 1 FROM participants WHERE id = $1)",
		participantID,
	)
	if err != nil {
		return zero, fmt.Errorf("check participant: %w", err)
	}
	if !exists {
		return zero, ErrParticipantNotFound
	}

	table, err := r.loadTable(ctx, tx, weightTableID)
	if err != nil {
		return zero, err
	}

	values, err := r.loadValues(ctx, tx, participantID)
	if err != nil {
		return zero, wrapPair(table.ProfActivityCode, err)
	}

	outcome := Compute(values, table)

	penalties, err := json.Marshal(outcome.PenaltiesApplied)
	if err != nil {
		return zero, wrapPair(table.ProfActivityCode, fmt.Errorf("encode penalties applied: %w", err))
	}
	used, err := json.Marshal(outcome.MetricsUsed)
	if err != nil {
		return zero, wrapPair(table.ProfActivityCode, fmt.Errorf("encode metrics used: %w", err))
	}

	// Preserve the superseded row before overwriting it. A no-op on the
	// pair's first computation.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO scoring_history(participant_id, prof_activity_code, weight_table_id,
			base_score, penalty_multiplier, final_score, penalties_applied, metrics_used, computed_at)
		SELECT participant_id, prof_activity_code, weight_table_id,
			base_score, penalty_multiplier, final_score, penalties_applied, metrics_used, computed_at
		FROM scoring_results
		WHERE participant_id = $1 AND prof_activity_code = $2`,
		participantID, table.ProfActivityCode,
	)
	if err != nil {
		return zero, wrapPair(table.ProfActivityCode, fmt.Errorf("archive prior result: %w", err))
	}

	q := fmt.Sprintf(`
		INSERT INTO scoring_results(participant_id, prof_activity_code, weight_table_id,
			base_score, penalty_multiplier, final_score, penalties_applied, metrics_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (participant_id, prof_activity_code)
		DO UPDATE SET
			weight_table_id = EXCLUDED.weight_table_id,
			base_score = EXCLUDED.base_score,
			penalty_multiplier = EXCLUDED.penalty_multiplier,
			final_score = EXCLUDED.final_score,
			penalties_applied = EXCLUDED.penalties_applied,
			metrics_used = EXCLUDED.metrics_used,
			computed_at = NOW()
		RETURNING %s`, resultColumns)

	res, err := repository.QueryOne(
		ctx, tx, q,
		[]any{
			participantID,
			table.ProfActivityCode,
			weightTableID,
			outcome.BaseScore,
			outcome.PenaltyMultiplier,
			outcome.FinalScore,
			penalties,
			used,
		},
		scanResult,
	)
	if err != nil {
		return zero, wrapPair(table.ProfActivityCode, fmt.Errorf("store result: %w", err))
	}

	return res, nil
}

func (r *repo) RecalculateParticipant(ctx context.Context, participantID uuid.UUID, weightTableIDs []uuid.UUID) (*BatchOutcome, error) {
	exists, err := repository.Exists(
		ctx, r.db,
		"SELECT EXISTS (SELECT 1 FROM participants WHERE id = $1)",
		participantID,
	)
	if err != nil {
		return nil, fmt.Errorf("check participant: %w", err)
	}
	if !exists {
		return nil, ErrParticipantNotFound
	}

	tableIDs, err := r.resolveTables(ctx, weightTableIDs)
	if err != nil {
		return nil, err
	}

	return r.runBatch(ctx, []uuid.UUID{participantID}, tableIDs)
}

func (r *repo) BatchRecalculate(ctx context.Context, participantIDs, weightTableIDs []uuid.UUID) (*BatchOutcome, error) {
	participants, err := r.resolveParticipants(ctx, participantIDs)
	if err != nil {
		return nil, err
	}

	tableIDs, err := r.resolveTables(ctx, weightTableIDs)
	if err != nil {
		return nil, err
	}

	return r.runBatch(ctx, participants, tableIDs)
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Result, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	res, err := repository.QueryOne(ctx, r.db, q, args, scanResult)
	if err != nil {
		return nil, repository.MapError(err, ErrResultNotFound, ErrResultNotFound)
	}
	return &res, nil
}

func (r *repo) ForParticipant(ctx context.Context, participantID uuid.UUID) ([]Result, error) {
	q, args := query.
		NewBuilder(projection, defaultSort...).
		WhereEquals("ParticipantID", participantID).
		Build()

	results, err := repository.QueryMany(ctx, r.db, q, args, scanResult)
	if err != nil {
		return nil, fmt.Errorf("query scoring results: %w", err)
	}
	return results, nil
}

// History returns current and superseded results for a participant,
// newest first. The audit table holds superseded rows only, so the
// current row is merged in from scoring_results.
func (r *repo) History(ctx context.Context, participantID uuid.UUID, profActivityCode string, limit int) ([]Result, error) {
	if limit < 1 {
		limit = historyDefaultLimit
	}
	if limit > historyMaxLimit {
		limit = historyMaxLimit
	}

	profFilter := ""
	args := []any{participantID}
	if profActivityCode != "" {
		profFilter = " AND prof_activity_code = $2"
		args = append(args, profActivityCode)
	}

	q := fmt.Sprintf(`
		SELECT %s FROM (
			SELECT %s FROM scoring_history WHERE participant_id = $1%s
			UNION ALL
			SELECT %s FROM scoring_results WHERE participant_id = $1%s
		) merged
		ORDER BY computed_at DESC
		LIMIT %d`,
		resultColumns, resultColumns, profFilter, resultColumns, profFilter, limit)

	results, err := repository.QueryMany(ctx, r.db, q, args, scanResult)
	if err != nil {
		return nil, fmt.Errorf("query scoring history: %w", err)
	}
	return results, nil
}

func (r *repo) loadTable(ctx context.Context, tx *sql.Tx, id uuid.UUID) (weights.Table, error) {
	var t weights.Table

	err := tx.QueryRowContext(ctx,
		"SELECT id, prof_activity_code, version, active FROM weight_tables WHERE id = $1",
		id,
	).Scan(&t.ID, &t.ProfActivityCode, &t.Version, &t.Active)

	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrWeightTableNotFound
	}
	if err != nil {
		return t, fmt.Errorf("query weight table: %w", err)
	}

	t.Entries, err = repository.QueryMany(
		ctx, tx,
		`SELECT metric_code, weight, is_critical, penalty, threshold
		FROM weight_entries
		WHERE weight_table_id = $1
		ORDER BY metric_code`,
		[]any{id},
		func(s repository.Scanner) (weights.Entry, error) {
			var e weights.Entry
			err := s.Scan(&e.MetricCode, &e.Weight, &e.IsCritical, &e.Penalty, &e.Threshold)
			return e, err
		},
	)
	if err != nil {
		return t, wrapPair(t.ProfActivityCode, fmt.Errorf("query weight entries: %w", err))
	}

	return t, nil
}

func (r *repo) loadValues(ctx context.Context, tx *sql.Tx, participantID uuid.UUID) (map[string]float64, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT metric_code, value FROM metric_values WHERE participant_id = $1",
		participantID,
	)
	if err != nil {
		return nil, fmt.Errorf("query metric values: %w", err)
	}
	defer rows.Close()

	values := make(map[string]float64)
	for rows.Next() {
		var code string
		var value float64
		if err := rows.Scan(&code, &value); err != nil {
			return nil, fmt.Errorf("scan metric value: %w", err)
		}
		values[code] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read metric values: %w", err)
	}
	return values, nil
}

func (r *repo) resolveParticipants(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) > 0 {
		return ids, nil
	}

	resolved, err := r.queryIDs(ctx, "SELECT id FROM participants ORDER BY full_name, id")
	if err != nil {
		return nil, fmt.Errorf("resolve participants: %w", err)
	}
	if len(resolved) == 0 {
		return nil, ErrNoParticipants
	}
	return resolved, nil
}

func (r *repo) resolveTables(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) > 0 {
		return ids, nil
	}

	resolved, err := r.queryIDs(ctx, "SELECT id FROM weight_tables WHERE active ORDER BY prof_activity_code")
	if err != nil {
		return nil, fmt.Errorf("resolve weight tables: %w", err)
	}
	if len(resolved) == 0 {
		return nil, ErrNoWeightTables
	}
	return resolved, nil
}

func (r *repo) queryIDs(ctx context.Context, q string) ([]uuid.UUID, error) {
	return repository.QueryMany(ctx, r.db, q, nil, func(s repository.Scanner) (uuid.UUID, error) {
		var id uuid.UUID
		err := s.Scan(&id)
		return id, err
	})
}

// pairError carries the profession code alongside a pair failure so
// batch outcomes can report it without a second lookup.
type pairError struct {
	prof string
	err  error
}

func (e *pairError) Error() string { return e.err.Error() }
func (e *pairError) Unwrap() error { return e.err }

func wrapPair(prof string, err error) error {
	if prof == "" {
		return err
	}
	return &pairError{prof: prof, err: err}
}
