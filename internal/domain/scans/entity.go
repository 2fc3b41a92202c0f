package scans

import (
	"time"
)

// ID tipe untuk Scan
type ScanID string

// Stage enum
type Stage string

const (
	StageDetection      Stage = "detection"
	StageClassification Stage = "classification"
	StageExplanation    Stage = "explanation"
)

// Stages lists every analysis stage in pipeline order.
func Stages() []Stage {
	return []Stage{StageDetection, StageClassification, StageExplanation}
}

// Number returns the 1-based pipeline position of a stage.
func (s Stage) Number() int {
	switch s {
	case StageDetection:
		return 1
	case StageClassification:
		return 2
	case StageExplanation:
		return 3
	}
	return 0
}

// Category enum, closed set of tumor types the classifier may return.
type Category string

const (
	CategoryGlioma      Category = "Glioma"
	CategoryMeningioma  Category = "Meningioma"
	CategoryPituitary   Category = "Pituitary"
	CategoryAstrocytoma Category = "Astrocytoma"
)

// Categories returns the closed classification set.
func Categories() []Category {
	return []Category{CategoryGlioma, CategoryMeningioma, CategoryPituitary, CategoryAstrocytoma}
}

// KnownCategory reports whether c is in the closed set.
func KnownCategory(c Category) bool {
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}

// Severity enum
type Severity string

const (
	SeverityModerate Severity = "Moderate"
	SeverityHigh     Severity = "High"
)

// SeverityFromConfidence maps classifier confidence to a severity band.
func SeverityFromConfidence(confidence float64) Severity {
	if confidence >= 0.90 {
		return SeverityHigh
	}
	return SeverityModerate
}

// BlobRef value object: a stored object plus a time-limited retrieval URL.
type BlobRef struct {
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	SignedURL string `json:"signed_url,omitempty"`
}

// Aggregate Root: Scan, one uploaded MRI under analysis.
// Immutable after upload; retention/deletion is not handled here.
type Scan struct {
	ID          ScanID    `json:"id"`
	PatientID   string    `json:"patient_id,omitempty"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	Blob        BlobRef   `json:"blob"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// DetectionOutcome is the stage 1 verdict.
type DetectionOutcome struct {
	TumorDetected bool    `json:"tumor_detected"`
	Confidence    float64 `json:"confidence"`
}

// ClassificationOutcome is the stage 2 verdict, only meaningful after a
// positive detection.
type ClassificationOutcome struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Severity   Severity `json:"severity"`
}

// ExplanationOutcome is stage 3, the stored heatmap overlay.
type ExplanationOutcome struct {
	Visual BlobRef `json:"visual"`
}

// StageResult holds at most one live record per (scan, stage); re-running a
// stage replaces the record, it never appends.
type StageResult struct {
	ScanID     ScanID    `json:"scan_id"`
	Stage      Stage     `json:"stage"`
	ProducedAt time.Time `json:"produced_at"`

	// Exactly one of these is set, matching Stage.
	Detection      *DetectionOutcome      `json:"detection,omitempty"`
	Classification *ClassificationOutcome `json:"classification,omitempty"`
	Explanation    *ExplanationOutcome    `json:"explanation,omitempty"`
}

// LabelNoTumor is the negative-class label of the backing models.
const LabelNoTumor = "no_tumor"

// Prediction is what the inference gateway returns for one image.
// Label no_tumor means a negative detection; anything else is a tumor
// category label.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Detected interprets the prediction as a stage-1 verdict.
func (p Prediction) Detected() bool {
	return p.Label != "" && p.Label != LabelNoTumor
}
