package scans

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeverityFromConfidence(t *testing.T) {
	require.Equal(t, SeverityHigh, SeverityFromConfidence(0.95))
	require.Equal(t, SeverityHigh, SeverityFromConfidence(0.90))
	require.Equal(t, SeverityModerate, SeverityFromConfidence(0.89))
	require.Equal(t, SeverityModerate, SeverityFromConfidence(0))
}

func TestPredictionDetected(t *testing.T) {
	require.False(t, Prediction{Label: LabelNoTumor, Confidence: 0.99}.Detected())
	require.False(t, Prediction{}.Detected())
	require.True(t, Prediction{Label: "glioma", Confidence: 0.5}.Detected())
}

func TestKnownCategory(t *testing.T) {
	for _, c := range Categories() {
		require.True(t, KnownCategory(c))
	}
	require.False(t, KnownCategory("Cerebellum"))
	require.False(t, KnownCategory(""))
}

func TestStageNumber(t *testing.T) {
	require.Equal(t, 1, StageDetection.Number())
	require.Equal(t, 2, StageClassification.Number())
	require.Equal(t, 3, StageExplanation.Number())
	require.Equal(t, 0, Stage("unknown").Number())
}
