package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
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
  id           VARCHAR(64)  NOT NULL,
  patient_id   VARCHAR(255) NOT NULL,
  file_name    VARCHAR(512) NOT NULL,
  content_type VARCHAR(128) NOT NULL,
  size_bytes   BIGINT       NOT NULL,
  bucket       VARCHAR(255) NOT NULL,
  blob_key     VARCHAR(512) NOT NULL,
  signed_url   TEXT,
  uploaded_at  DATETIME(3)  NOT NULL,
  PRIMARY KEY (id)
);`,
		`CREATE TABLE IF NOT EXISTS stage_results (
  scan_id     VARCHAR(64) NOT NULL,
  stage       VARCHAR(32) NOT NULL,
  produced_at DATETIME(3) NOT NULL,
  outcome     JSON        NOT NULL,
  PRIMARY KEY (scan_id, stage)
);`,
		`CREATE TABLE IF NOT EXISTS reports (
  id           VARCHAR(128) NOT NULL,
  scan_id      VARCHAR(64)  NOT NULL,
  generated_at DATETIME(3)  NOT NULL,
  snapshot     JSON         NOT NULL,
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
