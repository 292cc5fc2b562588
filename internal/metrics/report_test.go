package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLoss_PerfectPredictions(t *testing.T) {
	probs := []float64{0.0, 1.0, 0.0, 1.0}
	labels := []int{0, 1, 0, 1}

	loss, err := LogLoss(probs, labels)
	require.NoError(t, err)

	// Clamping keeps the loss finite but tiny.
	assert.False(t, math.IsInf(loss, 0))
	assert.Less(t, loss, 1e-5)
}

func TestLogLoss_UninformativePredictions(t *testing.T) {
	probs := []float64{0.5, 0.5, 0.5, 0.5}
	labels := []int{0, 1, 0, 1}

	loss, err := LogLoss(probs, labels)
	require.NoError(t, err)

	// -ln(0.5) for every sample.
	assert.InDelta(t, math.Ln2, loss, 1e-12)
}

func TestLogLoss_InputValidation(t *testing.T) {
	_, err := LogLoss([]float64{0.5}, []int{0, 1})
	assert.Error(t, err)
	_, err = LogLoss(nil, nil)
	assert.Error(t, err)
}

func TestEvaluate_HandComputedReport(t *testing.T) {
	// Predictions: [1 0 1 1 0 0]; labels: [1 0 0 1 0 1].
	probs := []float64{0.9, 0.1, 0.8, 0.7, 0.2, 0.4}
	labels := []int{1, 0, 0, 1, 0, 1}

	r, err := Evaluate(probs, labels, DefaultThreshold)
	require.NoError(t, err)

	// Confusion: TP=2 FP=1 FN=1 TN=2.
	assert.InDelta(t, 4.0/6.0, r.Accuracy, 1e-12)
	assert.Equal(t, 6, r.Total)

	pos := r.Classes[1]
	assert.Equal(t, "Arrhythmia", pos.Name)
	assert.InDelta(t, 2.0/3.0, pos.Precision, 1e-12)
	assert.InDelta(t, 2.0/3.0, pos.Recall, 1e-12)
	assert.InDelta(t, 2.0/3.0, pos.F1, 1e-12)
	assert.Equal(t, 3, pos.Support)

	neg := r.Classes[0]
	assert.Equal(t, "Normal", neg.Name)
	assert.InDelta(t, 2.0/3.0, neg.Precision, 1e-12)
	assert.InDelta(t, 2.0/3.0, neg.Recall, 1e-12)
	assert.Equal(t, 3, neg.Support)

	assert.InDelta(t, 2.0/3.0, r.MacroF1, 1e-12)
	assert.InDelta(t, 2.0/3.0, r.WeightedF1, 1e-12)
}

func TestEvaluate_AllOneClassPredicted(t *testing.T) {
	probs := []float64{0.9, 0.8, 0.95, 0.7}
	labels := []int{1, 1, 0, 1}

	r, err := Evaluate(probs, labels, DefaultThreshold)
	require.NoError(t, err)

	// Nothing predicted Normal: precision and recall collapse to zero there.
	assert.Equal(t, 0.0, r.Classes[0].Precision)
	assert.Equal(t, 0.0, r.Classes[0].Recall)
	assert.Equal(t, 1, r.Classes[0].Support)

	assert.InDelta(t, 0.75, r.Classes[1].Precision, 1e-12)
	assert.InDelta(t, 1.0, r.Classes[1].Recall, 1e-12)
}

func TestEvaluate_RejectsInvalidLabels(t *testing.T) {
	_, err := Evaluate([]float64{0.5}, []int{3}, DefaultThreshold)
	assert.Error(t, err)
}

func TestReport_String(t *testing.T) {
	probs := []float64{0.9, 0.1, 0.8, 0.7, 0.2, 0.4}
	labels := []int{1, 0, 0, 1, 0, 1}

	r, err := Evaluate(probs, labels, DefaultThreshold)
	require.NoError(t, err)

	s := r.String()
	assert.Contains(t, s, "Normal")
	assert.Contains(t, s, "Arrhythmia")
	assert.Contains(t, s, "precision")
	assert.Contains(t, s, "macro avg")
	assert.Contains(t, s, "weighted avg")
	assert.Contains(t, s, "support")
}
