package memory

import (
	"context"
	"sync"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

// ScanRepository in-memory scan store. Default backend for dev and tests;
// the mysql/postgres repositories implement the same port.
type ScanRepository struct {
	mu    sync.RWMutex
	scans map[domain.ScanID]*domain.Scan
}

func NewScanRepository() *ScanRepository {
	return &ScanRepository{scans: make(map[domain.ScanID]*domain.Scan)}
}

func (r *ScanRepository) Save(ctx context.Context, s *domain.Scan) error {
	cp := *s
	r.mu.Lock()
	r.scans[s.ID] = &cp
	r.mu.Unlock()
	return nil
}

func (r *ScanRepository) Get(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	r.mu.RLock()
	s, ok := r.scans[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}
