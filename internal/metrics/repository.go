package metrics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/skillforge/fitscore/pkg/query"
	"github.com/skillforge/fitscore/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
	labels *LabelMap
	cache  *DefCache
}

// New creates a metric repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, labels *LabelMap) System {
	r := &repo{
		db:     db,
		logger: logger.With("system", "metrics"),
		labels: labels,
	}
	r.cache = NewDefCache(r.fetchDefs)
	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) fetchDefs(ctx context.Context, activeOnly bool) ([]Def, error) {
	qb := query.NewBuilder(defProjection, defSort...)

	if activeOnly {
		active := true
		qb.WhereEquals("Active", &active)
	}

	q, args := qb.Build()

	defs, err := repository.QueryMany(ctx, r.db, q, args, scanDef)
	if err != nil {
		return nil, fmt.Errorf("query metric defs: %w", err)
	}
	return defs, nil
}

func (r *repo) ListDefs(ctx context.Context, activeOnly bool) ([]Def, error) {
	return r.cache.Get(ctx, activeOnly)
}

func (r *repo) FindDef(ctx context.Context, id uuid.UUID) (*Def, error) {
	q, args := query.NewBuilder(defProjection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDef)
	if err != nil {
		return nil, repository.MapError(err, ErrDefNotFound, ErrDefDuplicate)
	}
	return &d, nil
}

func (r *repo) CreateDef(ctx context.Context, cmd CreateDefCommand) (*Def, error) {
	code := strings.ToLower(strings.TrimSpace(cmd.Code))
	if code == "" {
		return nil, ErrInvalidCode
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, ErrInvalidName
	}

	q := `
		INSERT INTO metric_defs(code, name, description, category, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, code, name, description, category, active, sort_order`

	args := []any{code, cmd.Name, cmd.Description, cmd.Category, cmd.SortOrder}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Def, error) {
		return repository.QueryOne(ctx, tx, q, args, scanDef)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrDefNotFound, ErrDefDuplicate)
	}

	r.cache.Invalidate()
	r.logger.Info("metric def created", "id", d.ID, "code", d.Code)
	return &d, nil
}

func (r *repo) UpdateDef(ctx context.Context, id uuid.UUID, cmd UpdateDefCommand) (*Def, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, ErrInvalidName
	}

	q := `
		UPDATE metric_defs
		SET name = $1, description = $2, category = $3, active = $4, sort_order = $5
		WHERE id = $6
		RETURNING id, code, name, description, category, active, sort_order`

	args := []any{cmd.Name, cmd.Description, cmd.Category, cmd.Active, cmd.SortOrder, id}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Def, error) {
		return repository.QueryOne(ctx, tx, q, args, scanDef)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrDefNotFound, ErrDefDuplicate)
	}

	r.cache.Invalidate()
	r.logger.Info("metric def updated", "id", d.ID, "code", d.Code, "active", d.Active)
	return &d, nil
}

func (r *repo) DeleteDef(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM metric_defs WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrDefNotFound, ErrDefDuplicate)
	}

	r.cache.Invalidate()
	r.logger.Info("metric def deleted", "id", id)
	return nil
}

func (r *repo) ForParticipant(ctx context.Context, participantID uuid.UUID) (map[string]Value, error) {
	if err := r.requireParticipant(ctx, r.db, participantID); err != nil {
		return nil, err
	}

	q, args := query.
		NewBuilder(valueProjection, valueSort...).
		WhereEquals("ParticipantID", participantID).
		Build()

	values, err := repository.QueryMany(ctx, r.db, q, args, scanValue)
	if err != nil {
		return nil, fmt.Errorf("query metric values: %w", err)
	}

	byCode := make(map[string]Value, len(values))
	for _, v := range values {
		byCode[v.MetricCode] = v
	}
	return byCode, nil
}

func (r *repo) Grid(ctx context.Context, participantID uuid.UUID) ([]ParticipantMetric, error) {
	values, err := r.ForParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}

	defs, err := r.cache.Get(ctx, true)
	if err != nil {
		return nil, err
	}

	grid := make([]ParticipantMetric, 0, len(defs))
	for _, d := range defs {
		row := ParticipantMetric{
			Code:     d.Code,
			Name:     d.Name,
			Category: d.Category,
		}

		if v, ok := values[d.Code]; ok {
			row.Value = v.Value
			row.Confidence = v.Confidence
			row.HasValue = true
			row.UpdatedAt = &v.UpdatedAt
		}

		grid = append(grid, row)
	}

	return grid, nil
}

func (r *repo) Set(ctx context.Context, participantID uuid.UUID, code string, cmd SetCommand) (*Value, error) {
	if cmd.Value < MinValue || cmd.Value > MaxValue {
		return nil, ErrInvalidValue
	}

	confidence := MaxConfidence
	if cmd.Confidence != nil {
		if *cmd.Confidence < MinConfidence || *cmd.Confidence > MaxConfidence {
			return nil, ErrInvalidConfidence
		}
		confidence = *cmd.Confidence
	}

	code = strings.ToLower(strings.TrimSpace(code))
	if err := r.requireDef(ctx, code); err != nil {
		return nil, err
	}

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Value, error) {
		if err := r.requireParticipant(ctx, tx, participantID); err != nil {
			return Value{}, err
		}

		// Manual edits are authoritative: they overwrite regardless of
		// priority and clear the source report association.
		q := `
			INSERT INTO metric_values(participant_id, metric_code, value, confidence)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (participant_id, metric_code)
			DO UPDATE SET
				value = EXCLUDED.value,
				confidence = EXCLUDED.confidence,
				source_report_id = NULL,
				updated_at = NOW()
			RETURNING id, participant_id, metric_code, value, confidence, source_report_id, updated_at`

		return repository.QueryOne(
			ctx, tx, q,
			[]any{participantID, code, cmd.Value, confidence},
			scanValue,
		)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrValueNotFound, ErrDefDuplicate)
	}

	r.logger.Info("metric value set",
		"participant_id", participantID,
		"metric_code", code,
		"value", v.Value,
	)
	return &v, nil
}

func (r *repo) Ingest(ctx context.Context, cmd IngestCommand) (*IngestResult, error) {
	if len(cmd.Rows) == 0 {
		return nil, ErrNoRows
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (IngestResult, error) {
		var res IngestResult

		if err := r.requireParticipant(ctx, tx, cmd.ParticipantID); err != nil {
			return res, err
		}

		seen := make(map[string]bool)

		for _, row := range cmd.Rows {
			metricCode, ok := r.labels.Resolve(row.Label)
			if !ok {
				if !seen[row.Label] {
					seen[row.Label] = true
					res.UnknownLabels = append(res.UnknownLabels, row.Label)
				}
				continue
			}

			if row.Value < MinValue || row.Value > MaxValue {
				res.Skipped++
				continue
			}
			if row.Confidence != nil &&
				(*row.Confidence < MinConfidence || *row.Confidence > MaxConfidence) {
				res.Skipped++
				continue
			}

			applied, err := r.upsertValue(ctx, tx, Value{
				ParticipantID:  cmd.ParticipantID,
				MetricCode:     metricCode,
				Value:          row.Value,
				Confidence:     row.Confidence,
				SourceReportID: cmd.SourceReportID,
			})
			if err != nil {
				return res, err
			}

			if applied {
				res.Applied++
			} else {
				res.Skipped++
			}
		}

		return res, nil
	})

	if err != nil {
		return nil, err
	}

	r.logger.Info("metric values ingested",
		"participant_id", cmd.ParticipantID,
		"applied", result.Applied,
		"skipped", result.Skipped,
		"unknown_labels", len(result.UnknownLabels),
	)
	return &result, nil
}

// upsertValue writes one incoming value under best-value priority. The
// current row is locked for the remainder of the transaction so
// concurrent ingests for the same participant serialize per metric.
func (r *repo) upsertValue(ctx context.Context, tx *sql.Tx, incoming Value) (bool, error) {
	current, err := repository.QueryOne(
		ctx, tx,
		`SELECT id, participant_id, metric_code, value, confidence, source_report_id, updated_at
		FROM metric_values
		WHERE participant_id = $1 AND metric_code = $2
		FOR UPDATE`,
		[]any{incoming.ParticipantID, incoming.MetricCode},
		scanValue,
	)

	if errors.Is(err, sql.ErrNoRows) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO metric_values(participant_id, metric_code, value, confidence, source_report_id)
			VALUES ($1, $2, $3, $4, $5)`,
			incoming.ParticipantID,
			incoming.MetricCode,
			incoming.Value,
			incoming.Confidence,
			incoming.SourceReportID,
		)
		if err != nil {
			return false, fmt.Errorf("insert metric value: %w", err)
		}
		return true, nil
	}

	if err != nil {
		return false, fmt.Errorf("query metric value: %w", err)
	}

	if !TakesPriority(incoming, current) {
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE metric_values
		SET value = $1, confidence = $2, source_report_id = $3, updated_at = NOW()
		WHERE id = $4`,
		incoming.Value,
		incoming.Confidence,
		incoming.SourceReportID,
		current.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update metric value: %w", err)
	}
	return true, nil
}

// TakesPriority reports whether an incoming value replaces the current
// one under best-value priority: higher value wins, ties fall to higher
// confidence (absent confidence counts as zero), and full ties fall to
// the incoming value.
func TakesPriority(incoming, current Value) bool {
	if incoming.Value != current.Value {
		return incoming.Value > current.Value
	}

	in, cur := MinConfidence, MinConfidence
	if incoming.Confidence != nil {
		in = *incoming.Confidence
	}
	if current.Confidence != nil {
		cur = *current.Confidence
	}

	if in != cur {
		return in > cur
	}
	return true
}

func (r *repo) requireParticipant(ctx context.Context, q repository.Querier, id uuid.UUID) error {
	exists, err := repository.Exists(
		ctx, q,
		"SELECT EXISTS (SELECT 1 FROM participants WHERE id = $1)",
		id,
	)
	if err != nil {
		return fmt.Errorf("check participant: %w", err)
	}
	if !exists {
		return ErrParticipantNotFound
	}
	return nil
}

func (r *repo) requireDef(ctx context.Context, code string) error {
	exists, err := repository.Exists(
		ctx, r.db,
		"SELECT EXISTS (SELECT 1 FROM metric_defs WHERE code = $1)",
		code,
	)
	if err != nil {
		return fmt.Errorf("check metric def: %w", err)
	}
	if !exists {
		return ErrDefNotFound
	}
	return nil
}
