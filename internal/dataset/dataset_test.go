package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDataset(normal, arrhythmia, steps int) *Dataset {
	d := &Dataset{}
	for i := 0; i < normal+arrhythmia; i++ {
		w := make([]float64, steps)
		for t := range w {
			w[t] = float64(i) * 0.01
		}
		d.Waveforms = append(d.Waveforms, w)
		if i < arrhythmia {
			d.Labels = append(d.Labels, LabelArrhythmia)
		} else {
			d.Labels = append(d.Labels, LabelNormal)
		}
	}
	return d
}

func TestDataset_Validate(t *testing.T) {
	d := makeDataset(7, 3, 50)
	assert.NoError(t, d.Validate())
	assert.Equal(t, 10, d.Len())
	assert.Equal(t, 50, d.Timesteps())
	assert.Equal(t, 3, d.Positives())
}

func TestDataset_Validate_RejectsRaggedWaveforms(t *testing.T) {
	d := makeDataset(5, 0, 50)
	d.Waveforms[2] = d.Waveforms[2][:49]

	err := d.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "length")
}

func TestDataset_Validate_RejectsInvalidLabels(t *testing.T) {
	d := makeDataset(5, 0, 50)
	d.Labels[1] = 2

	err := d.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label")
}

func TestDataset_Validate_RejectsCountMismatch(t *testing.T) {
	d := makeDataset(5, 0, 50)
	d.Labels = d.Labels[:4]

	assert.Error(t, d.Validate())
}

func TestDataset_Summarize(t *testing.T) {
	d := makeDataset(70, 30, 40)

	s, err := d.Summarize(10)
	require.NoError(t, err)

	assert.Equal(t, 100, s.Samples)
	assert.Equal(t, 40, s.Timesteps)
	assert.Equal(t, 70, s.Normal)
	assert.Equal(t, 30, s.Arrhythmia)
	assert.InDelta(t, 0.3, s.PositiveFraction, 1e-12)

	require.Len(t, s.Histogram, 10)
	total := 0
	for _, bin := range s.Histogram {
		total += bin.Count
	}
	assert.Equal(t, 100, total, "every sample lands in exactly one bin")
}

func TestDataset_Summarize_RejectsEmptyDataset(t *testing.T) {
	d := &Dataset{}
	_, err := d.Summarize(10)
	assert.Error(t, err)
}
