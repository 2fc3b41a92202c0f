package inference

import (
	"context"
	"hash/fnv"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

// Stub is a deterministic stand-in for the model backend, used when no
// inference endpoint is configured and in tests. The verdict is a pure
// function of the image bytes, so re-running a stage on the same scan
// yields the same answer.
type Stub struct{}

func NewStub() *Stub { return &Stub{} }

var stubLabels = []string{"glioma", "meningioma", "pituitary", "astrocytoma"}

func (Stub) Classify(ctx context.Context, image []byte) (domain.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Prediction{}, err
	}

	h := fnv.New32a()
	h.Write(image)
	sum := h.Sum32()

	// Roughly 30% of inputs fall in the negative class, mirroring the
	// class balance of the training corpus.
	if sum%10 < 3 {
		return domain.Prediction{
			Label:      domain.LabelNoTumor,
			Confidence: 0.85 + float64(sum%14)/100,
		}, nil
	}
	return domain.Prediction{
		Label:      stubLabels[sum%uint32(len(stubLabels))],
		Confidence: 0.80 + float64(sum%19)/100,
	}, nil
}
