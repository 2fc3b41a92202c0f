package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/reports"
)

type ReportRepository struct{ db *sql.DB }

func NewReportRepository(db *sql.DB) *ReportRepository { return &ReportRepository{db: db} }

func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	raw, err := json.Marshal(rep)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO reports (id, scan_id, generated_at, snapshot)
VALUES ($1,$2,$3,$4)
ON CONFLICT (id) DO UPDATE SET
 snapshot = EXCLUDED.snapshot;`

	_, err = r.db.ExecContext(ctx, q, rep.ID, rep.ScanID, rep.GeneratedAt, raw)
	return err
}

func (r *ReportRepository) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	const q = `SELECT snapshot FROM reports WHERE id=$1 LIMIT 1;`

	var raw []byte
	err := r.db.QueryRowContext(ctx, q, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rep domain.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}
