package mysql

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

type ScanRepository struct {
	db *sql.DB
}

func NewScanRepository(db *sql.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// Save insert/update Scan record. Scans are immutable after upload, the
// upsert only exists to make Save safe to re-run.
func (r *ScanRepository) Save(ctx context.Context, s *domain.Scan) error {
	const q = `
INSERT INTO scans
(id, patient_id, file_name, content_type, size_bytes, bucket, blob_key, signed_url, uploaded_at)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 signed_url=VALUES(signed_url);
`
	_, err := r.db.ExecContext(ctx, q,
		s.ID, stringOrDash(s.PatientID), s.FileName, s.ContentType, s.SizeBytes,
		s.Blob.Bucket, s.Blob.Key, s.Blob.SignedURL, s.UploadedAt,
	)
	return err
}

// Get by ID; (nil, nil) when the scan is unknown.
func (r *ScanRepository) Get(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	const q = `
SELECT id, patient_id, file_name, content_type, size_bytes, bucket, blob_key, signed_url, uploaded_at
FROM scans
WHERE id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, id)

	var s domain.Scan
	var signedURL sql.NullString
	if err := row.Scan(
		&s.ID, &s.PatientID, &s.FileName, &s.ContentType, &s.SizeBytes,
		&s.Blob.Bucket, &s.Blob.Key, &signedURL, &s.UploadedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.Blob.SignedURL = signedURL.String
	return &s, nil
}
