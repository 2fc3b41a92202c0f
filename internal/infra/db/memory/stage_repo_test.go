package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

func rec(id domain.ScanID, stage domain.Stage) *domain.StageResult {
	r := &domain.StageResult{ScanID: id, Stage: stage, ProducedAt: time.Now()}
	switch stage {
	case domain.StageDetection:
		r.Detection = &domain.DetectionOutcome{TumorDetected: true, Confidence: 0.9}
	case domain.StageClassification:
		r.Classification = &domain.ClassificationOutcome{Category: domain.CategoryGlioma, Confidence: 0.9, Severity: domain.SeverityHigh}
	case domain.StageExplanation:
		r.Explanation = &domain.ExplanationOutcome{Visual: domain.BlobRef{Bucket: "gradcam", Key: "k"}}
	}
	return r
}

func TestStageRepository_GetAbsent(t *testing.T) {
	repo := NewStageRepository()

	got, err := repo.Get(context.Background(), "s1", domain.StageDetection)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestStageRepository_PutReplaces(t *testing.T) {
	repo := NewStageRepository()
	ctx := context.Background()

	first := rec("s1", domain.StageDetection)
	first.Detection.TumorDetected = true
	require.NoError(t, repo.Put(ctx, first))

	second := rec("s1", domain.StageDetection)
	second.Detection.TumorDetected = false
	require.NoError(t, repo.Put(ctx, second))

	all, err := repo.All(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.False(t, all[domain.StageDetection].Detection.TumorDetected)
}

func TestStageRepository_ScansDoNotInterfere(t *testing.T) {
	repo := NewStageRepository()
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, rec("s1", domain.StageDetection)))
	require.NoError(t, repo.Put(ctx, rec("s2", domain.StageDetection)))

	all, err := repo.All(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestStageRepository_ConcurrentDistinctStages(t *testing.T) {
	repo := NewStageRepository()
	ctx := context.Background()

	// concurrent writers on distinct stage names of the same scan: both
	// writes must land, no lost update across distinct keys
	var wg sync.WaitGroup
	for _, stage := range domain.Stages() {
		wg.Add(1)
		go func(stage domain.Stage) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = repo.Put(ctx, rec("s1", stage))
			}
		}(stage)
	}
	wg.Wait()

	all, err := repo.All(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, all, len(domain.Stages()))
}

func TestStageRepository_ConcurrentSameStage(t *testing.T) {
	repo := NewStageRepository()
	ctx := context.Background()

	// two writers race on the same (scan, stage) key: writes must apply
	// atomically, the surviving record is one writer's whole record
	var wg sync.WaitGroup
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				r := rec("s1", domain.StageDetection)
				r.Detection.TumorDetected = w == 0
				r.Detection.Confidence = float64(w)
				_ = repo.Put(ctx, r)
			}
		}(w)
	}
	wg.Wait()

	got, err := repo.Get(ctx, "s1", domain.StageDetection)
	require.NoError(t, err)
	require.NotNil(t, got)
	if got.Detection.TumorDetected {
		require.Zero(t, got.Detection.Confidence)
	} else {
		require.Equal(t, 1.0, got.Detection.Confidence)
	}
}

func TestStageRepository_ReturnsCopies(t *testing.T) {
	repo := NewStageRepository()
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, rec("s1", domain.StageDetection)))

	got, err := repo.Get(ctx, "s1", domain.StageDetection)
	require.NoError(t, err)
	got.Stage = domain.StageExplanation

	again, err := repo.Get(ctx, "s1", domain.StageDetection)
	require.NoError(t, err)
	require.Equal(t, domain.StageDetection, again.Stage)
}

