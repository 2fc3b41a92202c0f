package scans

import (
	"context"
	"time"
)

// ScanRepository port (interface untuk scan persistence)
type ScanRepository interface {
	Save(ctx context.Context, s *Scan) error
	Get(ctx context.Context, id ScanID) (*Scan, error)
}

// StageRepository port: durable (scanID, stage) -> StageResult map.
// Put replaces any prior record for the same key atomically. Get returns
// (nil, nil) when the stage has not run. All returns only present stages.
type StageRepository interface {
	Put(ctx context.Context, rec *StageResult) error
	Get(ctx context.Context, id ScanID, stage Stage) (*StageResult, error)
	All(ctx context.Context, id ScanID) (map[Stage]*StageResult, error)
}

// BlobStore port (interface untuk binary object storage)
type BlobStore interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) (BlobRef, error)
	SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	Fetch(ctx context.Context, ref BlobRef) ([]byte, error)
}

// Inference port: opaque classification model. Two calls with the same
// bytes may return different answers; callers must not assume determinism.
type Inference interface {
	Classify(ctx context.Context, image []byte) (Prediction, error)
}

// Explainer port: opaque heatmap generator (Grad-CAM style overlay).
type Explainer interface {
	Render(ctx context.Context, image []byte) ([]byte, error)
}
