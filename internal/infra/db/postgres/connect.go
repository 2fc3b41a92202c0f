package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the workflow tables if they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	ddls := []string{
		`CREATE TABLE IF NOT EXISTS scans (
  id           TEXT        NOT NULL,
  patient_id   TEXT        NOT NULL,
  file_name    TEXT        NOT NULL,
  content_type TEXT        NOT NULL,
  size_bytes   BIGINT      NOT NULL,
  bucket       TEXT        NOT NULL,
  blob_key     TEXT        NOT NULL,
  signed_url   TEXT,
  uploaded_at  TIMESTAMPTZ NOT NULL,
  PRIMARY KEY (id)
);`,
		`CREATE TABLE IF NOT EXISTS stage_results (
  scan_id     TEXT        NOT NULL,
  stage       TEXT        NOT NULL,
  produced_at TIMESTAMPTZ NOT NULL,
  outcome     JSONB       NOT NULL,
  PRIMARY KEY (scan_id, stage)
);`,
		`CREATE TABLE IF NOT EXISTS reports (
  id           TEXT        NOT NULL,
  scan_id      TEXT        NOT NULL,
  generated_at TIMESTAMPTZ NOT NULL,
  snapshot     JSONB       NOT NULL,
  PRIMARY KEY (id)
);`,
	}
	for _, ddl := range ddls {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
