package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

type StageRepository struct{ db *sql.DB }

func NewStageRepository(db *sql.DB) *StageRepository { return &StageRepository{db: db} }

type outcomeColumn struct {
	Detection      *domain.DetectionOutcome      `json:"detection,omitempty"`
	Classification *domain.ClassificationOutcome `json:"classification,omitempty"`
	Explanation    *domain.ExplanationOutcome    `json:"explanation,omitempty"`
}

// Put replaces the (scan_id, stage) record atomically via ON CONFLICT.
func (r *StageRepository) Put(ctx context.Context, rec *domain.StageResult) error {
	raw, err := json.Marshal(outcomeColumn{
		Detection:      rec.Detection,
		Classification: rec.Classification,
		Explanation:    rec.Explanation,
	})
	if err != nil {
		return err
	}

	const q = `
INSERT INTO stage_results (scan_id, stage, produced_at, outcome)
VALUES ($1,$2,$3,$4)
ON CONFLICT (scan_id, stage) DO UPDATE SET
 produced_at = EXCLUDED.produced_at,
 outcome = EXCLUDED.outcome;`

	_, err = r.db.ExecContext(ctx, q, rec.ScanID, rec.Stage, rec.ProducedAt, raw)
	return err
}

// Get one stage record; (nil, nil) when the stage has not run.
func (r *StageRepository) Get(ctx context.Context, id domain.ScanID, stage domain.Stage) (*domain.StageResult, error) {
	const q = `
SELECT scan_id, stage, produced_at, outcome
FROM stage_results
WHERE scan_id=$1 AND stage=$2 LIMIT 1;`

	rec, err := scanStageRow(r.db.QueryRowContext(ctx, q, id, stage))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// All returns the present stages for one scan.
func (r *StageRepository) All(ctx context.Context, id domain.ScanID) (map[domain.Stage]*domain.StageResult, error) {
	const q = `
SELECT scan_id, stage, produced_at, outcome
FROM stage_results
WHERE scan_id=$1;`

	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.Stage]*domain.StageResult)
	for rows.Next() {
		rec, err := scanStageRow(rows)
		if err != nil {
			return nil, err
		}
		out[rec.Stage] = rec
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStageRow(row rowScanner) (*domain.StageResult, error) {
	var rec domain.StageResult
	var raw []byte
	if err := row.Scan(&rec.ScanID, &rec.Stage, &rec.ProducedAt, &raw); err != nil {
		return nil, err
	}
	var col outcomeColumn
	if err := json.Unmarshal(raw, &col); err != nil {
		return nil, err
	}
	rec.Detection = col.Detection
	rec.Classification = col.Classification
	rec.Explanation = col.Explanation
	return &rec, nil
}
