package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/reports"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save stores the snapshot whole as JSON. Reports are write-once; the
// upsert only keeps Save idempotent for the same id.
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	raw, err := json.Marshal(rep)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO reports (id, scan_id, generated_at, snapshot)
VALUES (?,?,?,?)
ON DUPLICATE KEY UPDATE
 snapshot=VALUES(snapshot);
`
	_, err = r.db.ExecContext(ctx, q, rep.ID, rep.ScanID, rep.GeneratedAt, raw)
	return err
}

// Get by report id; (nil, nil) when absent.
func (r *ReportRepository) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	const q = `SELECT snapshot FROM reports WHERE id=? LIMIT 1;`

	var raw []byte
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var rep domain.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}
