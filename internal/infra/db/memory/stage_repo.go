package memory

import (
	"context"
	"sync"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

type stageKey struct {
	scan  domain.ScanID
	stage domain.Stage
}

// StageRepository in-memory (scanID, stage) -> StageResult map. One mutex
// guards the whole map, so each Put lands atomically and the last writer
// to a key wins; writes to distinct keys never lose each other.
type StageRepository struct {
	mu      sync.RWMutex
	records map[stageKey]*domain.StageResult
}

func NewStageRepository() *StageRepository {
	return &StageRepository{records: make(map[stageKey]*domain.StageResult)}
}

func (r *StageRepository) Put(ctx context.Context, rec *domain.StageResult) error {
	cp := *rec
	r.mu.Lock()
	r.records[stageKey{rec.ScanID, rec.Stage}] = &cp
	r.mu.Unlock()
	return nil
}

func (r *StageRepository) Get(ctx context.Context, id domain.ScanID, stage domain.Stage) (*domain.StageResult, error) {
	r.mu.RLock()
	rec, ok := r.records[stageKey{id, stage}]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *StageRepository) All(ctx context.Context, id domain.ScanID) (map[domain.Stage]*domain.StageResult, error) {
	out := make(map[domain.Stage]*domain.StageResult)
	r.mu.RLock()
	for key, rec := range r.records {
		if key.scan == id {
			cp := *rec
			out[key.stage] = &cp
		}
	}
	r.mu.RUnlock()
	return out, nil
}
