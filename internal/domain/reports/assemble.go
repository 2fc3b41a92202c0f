package reports

import (
	"time"

	"github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

// Assemble builds a report snapshot from whatever stage results exist.
// Pure: no I/O, never fails; absent stages stay nil and are listed in
// MissingStages.
func Assemble(id ReportID, scan *scans.Scan, results map[scans.Stage]*scans.StageResult, patient PatientContext, now time.Time) *Report {
	r := &Report{
		ID:          id,
		ScanID:      scan.ID,
		Patient:     patient,
		GeneratedAt: now,
		Scan:        scan,
	}

	for _, stage := range scans.Stages() {
		rec := results[stage]
		if rec == nil {
			r.MissingStages = append(r.MissingStages, stage)
			continue
		}
		switch stage {
		case scans.StageDetection:
			r.Detection = rec
		case scans.StageClassification:
			r.Classification = rec
		case scans.StageExplanation:
			r.Explanation = rec
		}
	}
	if r.MissingStages == nil {
		r.MissingStages = []scans.Stage{}
	}
	return r
}
