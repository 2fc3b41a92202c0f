package scans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/neuroscan/internal/application"
	domain "github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

// Service implements use-cases untuk the staged scan workflow.
// Service is designed to be used concurrently and is thread-safe: it keeps
// no per-scan state between calls, every operation re-reads what it needs
// from the repositories.
type Service struct {
	Scans     domain.ScanRepository
	Stages    domain.StageRepository
	Blobs     domain.BlobStore
	Model     domain.Inference
	Explainer domain.Explainer
	Clock     application.Clock

	ScanBucket    string
	HeatmapBucket string
	SignedURLTTL  time.Duration
}

//
// ==== USE CASES ====
//

// Command untuk upload scan
type UploadScanCommand struct {
	PatientID   string
	FileName    string
	ContentType string
	Data        []byte
}

// Upload stores the image bytes, mints a ScanID and persists the Scan.
// The scan is immutable afterwards.
func (s *Service) Upload(ctx context.Context, cmd UploadScanCommand) (*domain.Scan, error) {
	if len(cmd.Data) == 0 {
		return nil, fmt.Errorf("%w: no file provided", domain.ErrBadInput)
	}

	now := s.Clock.Now()
	id := domain.ScanID(uuid.New().String())
	key := fmt.Sprintf("%s-%d-%s", orDash(cmd.PatientID), now.UnixMilli(), orDash(cmd.FileName))

	ref, err := s.Blobs.Put(ctx, s.ScanBucket, key, cmd.Data, cmd.ContentType)
	if err != nil {
		return nil, storageErr("upload scan image", err)
	}
	url, err := s.Blobs.SignedURL(ctx, ref.Bucket, ref.Key, s.SignedURLTTL)
	if err != nil {
		return nil, storageErr("sign scan url", err)
	}
	ref.SignedURL = url

	scan := &domain.Scan{
		ID:          id,
		PatientID:   cmd.PatientID,
		FileName:    cmd.FileName,
		ContentType: cmd.ContentType,
		SizeBytes:   int64(len(cmd.Data)),
		Blob:        ref,
		UploadedAt:  now,
	}
	if err := s.Scans.Save(ctx, scan); err != nil {
		return nil, storageErr("save scan", err)
	}
	return scan, nil
}

// RunDetection is stage 1. No gate beyond scan existence. The stored
// detection record is replaced on every call; two runs may legitimately
// disagree when the backing model is stochastic or versioned.
func (s *Service) RunDetection(ctx context.Context, id domain.ScanID) (*domain.StageResult, error) {
	scan, err := s.getScan(ctx, id)
	if err != nil {
		return nil, err
	}

	image, err := s.Blobs.Fetch(ctx, scan.Blob)
	if err != nil {
		return nil, storageErr("fetch scan image", err)
	}

	pred, err := s.Model.Classify(ctx, image)
	if err != nil {
		return nil, inferenceErr("detect", err)
	}

	rec := &domain.StageResult{
		ScanID:     id,
		Stage:      domain.StageDetection,
		ProducedAt: s.Clock.Now(),
		Detection: &domain.DetectionOutcome{
			TumorDetected: pred.Detected(),
			Confidence:    pred.Confidence,
		},
	}
	if err := s.Stages.Put(ctx, rec); err != nil {
		return nil, storageErr("store detection result", err)
	}
	return rec, nil
}

// RunClassification is stage 2, gated on a stored positive detection.
// Classification is medically meaningless without one, so the gate failure
// is ErrPreconditionFailed, never ErrNotFound.
func (s *Service) RunClassification(ctx context.Context, id domain.ScanID) (*domain.StageResult, error) {
	scan, err := s.getScan(ctx, id)
	if err != nil {
		return nil, err
	}

	det, err := s.Stages.Get(ctx, id, domain.StageDetection)
	if err != nil {
		return nil, storageErr("read detection result", err)
	}
	if det == nil || det.Detection == nil {
		return nil, fmt.Errorf("%w: detection has not run for scan %s", domain.ErrPreconditionFailed, id)
	}
	if !det.Detection.TumorDetected {
		return nil, fmt.Errorf("%w: no tumor detected in stage 1 for scan %s", domain.ErrPreconditionFailed, id)
	}

	image, err := s.Blobs.Fetch(ctx, scan.Blob)
	if err != nil {
		return nil, storageErr("fetch scan image", err)
	}

	pred, err := s.Model.Classify(ctx, image)
	if err != nil {
		return nil, inferenceErr("classify", err)
	}
	category := domain.Category(canonicalLabel(pred.Label))
	if !domain.KnownCategory(category) {
		return nil, fmt.Errorf("%w: model returned label %q outside the known set", domain.ErrInferenceUnavailable, pred.Label)
	}

	rec := &domain.StageResult{
		ScanID:     id,
		Stage:      domain.StageClassification,
		ProducedAt: s.Clock.Now(),
		Classification: &domain.ClassificationOutcome{
			Category:   category,
			Confidence: pred.Confidence,
			Severity:   domain.SeverityFromConfidence(pred.Confidence),
		},
	}
	if err := s.Stages.Put(ctx, rec); err != nil {
		return nil, storageErr("store classification result", err)
	}
	return rec, nil
}

// RunExplanation is stage 3. Independently requestable: only the scan has
// to exist, no ordering against detection/classification.
func (s *Service) RunExplanation(ctx context.Context, id domain.ScanID) (*domain.StageResult, error) {
	scan, err := s.getScan(ctx, id)
	if err != nil {
		return nil, err
	}

	image, err := s.Blobs.Fetch(ctx, scan.Blob)
	if err != nil {
		return nil, storageErr("fetch scan image", err)
	}

	heatmap, err := s.Explainer.Render(ctx, image)
	if err != nil {
		return nil, inferenceErr("render heatmap", err)
	}

	key := fmt.Sprintf("gradcam-%s.png", id)
	ref, err := s.Blobs.Put(ctx, s.HeatmapBucket, key, heatmap, "image/png")
	if err != nil {
		return nil, storageErr("store heatmap", err)
	}
	url, err := s.Blobs.SignedURL(ctx, ref.Bucket, ref.Key, s.SignedURLTTL)
	if err != nil {
		return nil, storageErr("sign heatmap url", err)
	}
	ref.SignedURL = url

	rec := &domain.StageResult{
		ScanID:      id,
		Stage:       domain.StageExplanation,
		ProducedAt:  s.Clock.Now(),
		Explanation: &domain.ExplanationOutcome{Visual: ref},
	}
	if err := s.Stages.Put(ctx, rec); err != nil {
		return nil, storageErr("store explanation result", err)
	}
	return rec, nil
}

// Get ambil 1 scan by id plus whatever stage results it has so far.
func (s *Service) Get(ctx context.Context, id domain.ScanID) (*domain.Scan, map[domain.Stage]*domain.StageResult, error) {
	scan, err := s.getScan(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	results, err := s.Stages.All(ctx, id)
	if err != nil {
		return nil, nil, storageErr("read stage results", err)
	}
	return scan, results, nil
}

func (s *Service) getScan(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	scan, err := s.Scans.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, storageErr("read scan", err)
	}
	if scan == nil {
		return nil, fmt.Errorf("%w: scan %s", domain.ErrNotFound, id)
	}
	return scan, nil
}

//
// helpers
//

// storageErr tags a dependency failure as storage-unavailable unless the
// caller's own context ended the call first.
func storageErr(op string, err error) error {
	if ctxDone(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
}

func inferenceErr(op string, err error) error {
	if ctxDone(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrInferenceUnavailable, op, err)
}

func ctxDone(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// canonicalLabel maps lowercase model labels onto the Category set.
func canonicalLabel(label string) string {
	switch label {
	case "glioma":
		return string(domain.CategoryGlioma)
	case "meningioma":
		return string(domain.CategoryMeningioma)
	case "pituitary":
		return string(domain.CategoryPituitary)
	case "astrocytoma":
		return string(domain.CategoryAstrocytoma)
	}
	return label
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
