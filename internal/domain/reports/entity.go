package reports

import (
	"time"

	"github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

// ReportID identifier type
type ReportID string

// PatientContext carries the caller-supplied patient fields verbatim.
// The core stores them; it does not validate them.
type PatientContext struct {
	Name   string `json:"name"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
}

// Report is an immutable snapshot of a scan's stage results at assembly
// time. Later stage re-runs do not touch an existing report; re-assembling
// mints a new ReportID.
//
// Stage pointers are serialized without omitempty so an absent stage shows
// up as an explicit null, and MissingStages names them outright.
type Report struct {
	ID          ReportID       `json:"report_id"`
	ScanID      scans.ScanID   `json:"scan_id"`
	Patient     PatientContext `json:"patient"`
	GeneratedAt time.Time      `json:"generated_at"`

	Scan           *scans.Scan        `json:"scan"`
	Detection      *scans.StageResult `json:"detection"`
	Classification *scans.StageResult `json:"classification"`
	Explanation    *scans.StageResult `json:"explanation"`

	MissingStages []scans.Stage `json:"missing_stages"`
}
