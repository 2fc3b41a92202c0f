package memory

import (
	"context"
	"sync"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/reports"
)

// ReportRepository in-memory report store keyed by report id.
type ReportRepository struct {
	mu      sync.RWMutex
	reports map[domain.ReportID]*domain.Report
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{reports: make(map[domain.ReportID]*domain.Report)}
}

func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	cp := *rep
	r.mu.Lock()
	r.reports[rep.ID] = &cp
	r.mu.Unlock()
	return nil
}

func (r *ReportRepository) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	r.mu.RLock()
	rep, ok := r.reports[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	cp := *rep
	return &cp, nil
}
