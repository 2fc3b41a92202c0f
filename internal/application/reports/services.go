package reports

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bryanwahyu/neuroscan/internal/application"
	domain "github.com/bryanwahyu/neuroscan/internal/domain/reports"
	"github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

// Service assembles and serves report snapshots.
type Service struct {
	Scans   scans.ScanRepository
	Stages  scans.StageRepository
	Reports domain.Repository
	Clock   application.Clock
}

// Generate takes a fresh snapshot of whatever stage results exist right
// now. It never fails because stages are missing, absent stages are part
// of the snapshot. Every call mints a new ReportID; earlier reports stay
// untouched.
func (s *Service) Generate(ctx context.Context, scanID scans.ScanID, patient domain.PatientContext) (*domain.Report, error) {
	scan, err := s.Scans.Get(ctx, scanID)
	if err != nil {
		if errors.Is(err, scans.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: read scan: %v", scans.ErrStorageUnavailable, err)
	}
	if scan == nil {
		return nil, fmt.Errorf("%w: scan %s", scans.ErrNotFound, scanID)
	}

	results, err := s.Stages.All(ctx, scanID)
	if err != nil {
		return nil, fmt.Errorf("%w: read stage results: %v", scans.ErrStorageUnavailable, err)
	}

	id := domain.ReportID(fmt.Sprintf("report-%s", uuid.New().String()))
	report := domain.Assemble(id, scan, results, patient, s.Clock.Now())

	if err := s.Reports.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("%w: save report: %v", scans.ErrStorageUnavailable, err)
	}
	return report, nil
}

// Get is a pure lookup by report id.
func (s *Service) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	report, err := s.Reports.Get(ctx, id)
	if err != nil {
		if errors.Is(err, scans.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: read report: %v", scans.ErrStorageUnavailable, err)
	}
	if report == nil {
		return nil, fmt.Errorf("%w: report %s", scans.ErrNotFound, id)
	}
	return report, nil
}
