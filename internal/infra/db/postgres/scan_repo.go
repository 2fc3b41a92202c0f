package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

type ScanRepository struct{ db *sql.DB }

func NewScanRepository(db *sql.DB) *ScanRepository { return &ScanRepository{db: db} }

// Save insert/update Scan record
func (r *ScanRepository) Save(ctx context.Context, s *domain.Scan) error {
	const q = `
INSERT INTO scans
(id, patient_id, file_name, content_type, size_bytes, bucket, blob_key, signed_url, uploaded_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
 signed_url = EXCLUDED.signed_url;`

	patient := s.PatientID
	if strings.TrimSpace(patient) == "" {
		patient = "-"
	}
	_, err := r.db.ExecContext(ctx, q,
		s.ID, patient, s.FileName, s.ContentType, s.SizeBytes,
		s.Blob.Bucket, s.Blob.Key, s.Blob.SignedURL, s.UploadedAt,
	)
	return err
}

// Get by ID; (nil, nil) when the scan is unknown.
func (r *ScanRepository) Get(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	const q = `
SELECT id, patient_id, file_name, content_type, size_bytes, bucket, blob_key, signed_url, uploaded_at
FROM scans
WHERE id=$1 LIMIT 1;`

	var s domain.Scan
	var signedURL sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.PatientID, &s.FileName, &s.ContentType, &s.SizeBytes,
		&s.Blob.Bucket, &s.Blob.Key, &signedURL, &s.UploadedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Blob.SignedURL = signedURL.String
	return &s, nil
}
