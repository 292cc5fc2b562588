package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// trainingSet builds a tiny separable dataset: plain sines labeled 0 and
// sines with an amplified mid-section labeled 1.
func trainingSet(n, steps int) ([][]float64, []int) {
	waveforms := make([][]float64, n)
	labels := make([]int, n)
	for i := range waveforms {
		w := sineWave(steps, 1)
		if i%2 == 1 {
			for t := steps / 3; t < steps/3+20; t++ {
				w[t] *= 1.8
			}
			labels[i] = 1
		}
		waveforms[i] = w
	}
	return waveforms, labels
}

func TestNetwork_Fit_OneEpochFiniteLoss(t *testing.T) {
	net, err := NewNetwork(500, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	waveforms, labels := trainingSet(80, 500)
	hist, err := net.Fit(waveforms, labels, FitConfig{Epochs: 1, Seed: 1})
	require.NoError(t, err)

	require.Len(t, hist.Epochs, 1)
	stats := hist.Epochs[0]
	assert.False(t, math.IsNaN(stats.TrainLoss))
	assert.False(t, math.IsInf(stats.TrainLoss, 0))
	assert.GreaterOrEqual(t, stats.TrainLoss, 0.0)
	assert.False(t, math.IsNaN(stats.ValLoss))
	assert.GreaterOrEqual(t, stats.ValLoss, 0.0)
}

func TestNetwork_Fit_RecordsHistoryAndBestEpoch(t *testing.T) {
	net, err := NewNetwork(300, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	waveforms, labels := trainingSet(40, 300)
	hist, err := net.Fit(waveforms, labels, FitConfig{Epochs: 5, BatchSize: 8, Seed: 2})
	require.NoError(t, err)

	assert.NotEmpty(t, hist.Epochs)
	assert.LessOrEqual(t, len(hist.Epochs), 5)

	best := math.Inf(1)
	bestIdx := 0
	for i, e := range hist.Epochs {
		if e.ValLoss < best {
			best = e.ValLoss
			bestIdx = i
		}
	}
	assert.Equal(t, bestIdx, hist.BestEpoch, "best epoch is the validation loss minimum")
}

func TestNetwork_Fit_EarlyStoppingBoundedByPatience(t *testing.T) {
	net, err := NewNetwork(300, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	waveforms, labels := trainingSet(40, 300)
	hist, err := net.Fit(waveforms, labels, FitConfig{
		Epochs:    50,
		BatchSize: 8,
		Patience:  2,
		Seed:      3,
	})
	require.NoError(t, err)

	if hist.Stopped {
		// Training must have ended exactly patience epochs after the best one.
		assert.Equal(t, hist.BestEpoch+2+1, len(hist.Epochs))
	} else {
		assert.Len(t, hist.Epochs, 50)
	}
}

func TestNetwork_Fit_RestoresBestEpochWeights(t *testing.T) {
	net, err := NewNetwork(300, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	// Snapshot the weights after every epoch; the callback runs before the
	// final restore, so snapshots[i] is the state the network would be left
	// in had training ended at epoch i.
	var snapshots [][][]float64
	waveforms, labels := trainingSet(40, 300)
	hist, err := net.Fit(waveforms, labels, FitConfig{
		Epochs:    50,
		BatchSize: 8,
		Patience:  2,
		Seed:      7,
		OnEpoch:   func(EpochStats) { snapshots = append(snapshots, net.snapshot()) },
	})
	require.NoError(t, err)
	require.Len(t, snapshots, len(hist.Epochs))

	assert.Equal(t, snapshots[hist.BestEpoch], net.snapshot(),
		"post-fit weights match the best validation epoch")

	if hist.Stopped {
		// Early stopping guarantees the last epochs did not improve, so the
		// best epoch is strictly before the last and its weights differ.
		last := len(hist.Epochs) - 1
		require.Less(t, hist.BestEpoch, last)
		assert.NotEqual(t, snapshots[last], net.snapshot(),
			"post-fit weights are not the last epoch's")
	}
}

func TestNetwork_Fit_OnEpochCallback(t *testing.T) {
	net, err := NewNetwork(300, rand.New(rand.NewSource(4)))
	require.NoError(t, err)

	waveforms, labels := trainingSet(20, 300)
	var seen []int
	_, err = net.Fit(waveforms, labels, FitConfig{
		Epochs:    3,
		BatchSize: 4,
		Patience:  10,
		Seed:      4,
		OnEpoch:   func(s EpochStats) { seen = append(seen, s.Epoch) },
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestNetwork_Fit_PredictionsStayProbabilities(t *testing.T) {
	net, err := NewNetwork(300, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	waveforms, labels := trainingSet(30, 300)
	_, err = net.Fit(waveforms, labels, FitConfig{Epochs: 2, BatchSize: 8, Seed: 5})
	require.NoError(t, err)

	probs, err := net.PredictBatch(waveforms)
	require.NoError(t, err)
	for i, p := range probs {
		assert.GreaterOrEqual(t, p, 0.0, "sample %d", i)
		assert.LessOrEqual(t, p, 1.0, "sample %d", i)
	}
}

func TestNetwork_Fit_InputValidation(t *testing.T) {
	net, err := NewNetwork(300, rand.New(rand.NewSource(6)))
	require.NoError(t, err)

	waveforms, labels := trainingSet(10, 300)

	_, err = net.Fit(waveforms, labels[:9], FitConfig{})
	assert.Error(t, err, "count mismatch")

	bad := make([][]float64, len(waveforms))
	copy(bad, waveforms)
	bad[3] = bad[3][:299]
	_, err = net.Fit(bad, labels, FitConfig{})
	assert.Error(t, err, "ragged waveform")

	badLabels := append([]int{}, labels...)
	badLabels[0] = 7
	_, err = net.Fit(waveforms, badLabels, FitConfig{})
	assert.Error(t, err, "invalid label")

	_, err = net.Fit(waveforms[:1], labels[:1], FitConfig{})
	assert.Error(t, err, "too few samples")

	_, err = net.Fit(waveforms, labels, FitConfig{BatchSize: -1})
	assert.Error(t, err, "negative batch size")
}
