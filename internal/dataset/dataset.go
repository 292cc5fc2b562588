// Package dataset defines the labeled waveform collection shared by the
// generator and the classifier pipeline, along with exploratory statistics
// and the stratified train/test split.
package dataset

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Label values attached to generated waveforms.
const (
	LabelNormal     = 0
	LabelArrhythmia = 1
)

// Dataset is an ordered collection of fixed-length waveforms with binary labels.
// All waveforms share the same length; labels are attached 1:1.
type Dataset struct {
	Waveforms [][]float64
	Labels    []int
}

// Len returns the number of samples in the dataset.
func (d *Dataset) Len() int {
	return len(d.Waveforms)
}

// Timesteps returns the waveform length, or 0 for an empty dataset.
func (d *Dataset) Timesteps() int {
	if len(d.Waveforms) == 0 {
		return 0
	}
	return len(d.Waveforms[0])
}

// Positives returns the count of arrhythmia-labeled samples.
func (d *Dataset) Positives() int {
	n := 0
	for _, l := range d.Labels {
		if l == LabelArrhythmia {
			n++
		}
	}
	return n
}

// Validate checks the dataset invariants: waveform and label counts match,
// every waveform has the same length, and every label is 0 or 1.
func (d *Dataset) Validate() error {
	if len(d.Waveforms) != len(d.Labels) {
		return fmt.Errorf("waveform count %d does not match label count %d",
			len(d.Waveforms), len(d.Labels))
	}
	if len(d.Waveforms) == 0 {
		return fmt.Errorf("dataset is empty")
	}

	steps := len(d.Waveforms[0])
	for i, w := range d.Waveforms {
		if len(w) != steps {
			return fmt.Errorf("waveform %d has length %d, want %d", i, len(w), steps)
		}
	}

	for i, l := range d.Labels {
		if l != LabelNormal && l != LabelArrhythmia {
			return fmt.Errorf("label %d has invalid value %d", i, l)
		}
	}

	return nil
}

// HistogramBin is one bucket of the mean-amplitude histogram.
type HistogramBin struct {
	Low   float64
	High  float64
	Count int
}

// Summary holds exploratory statistics over a dataset.
type Summary struct {
	Samples          int
	Timesteps        int
	Normal           int
	Arrhythmia       int
	PositiveFraction float64
	MeanAmplitude    float64 // mean of per-sample mean amplitudes
	StdAmplitude     float64 // stddev of per-sample mean amplitudes
	Histogram        []HistogramBin
}

// Summarize computes exploratory statistics: label distribution and the
// distribution of per-sample mean amplitudes bucketed into bins.
func (d *Dataset) Summarize(bins int) (Summary, error) {
	if err := d.Validate(); err != nil {
		return Summary{}, err
	}
	if bins < 1 {
		return Summary{}, fmt.Errorf("histogram bins must be positive, got %d", bins)
	}

	s := Summary{
		Samples:    d.Len(),
		Timesteps:  d.Timesteps(),
		Arrhythmia: d.Positives(),
	}
	s.Normal = s.Samples - s.Arrhythmia
	s.PositiveFraction = float64(s.Arrhythmia) / float64(s.Samples)

	means := make([]float64, d.Len())
	for i, w := range d.Waveforms {
		means[i] = stat.Mean(w, nil)
	}
	s.MeanAmplitude = stat.Mean(means, nil)
	s.StdAmplitude = stat.StdDev(means, nil)

	sorted := make([]float64, len(means))
	copy(sorted, means)
	sort.Float64s(sorted)

	lo := sorted[0]
	hi := sorted[len(sorted)-1]
	if hi <= lo {
		hi = lo + 1e-9
	}
	// Widen the top divider slightly so the maximum lands in the last bucket.
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi+1e-9)
	counts := stat.Histogram(nil, dividers, sorted, nil)

	s.Histogram = make([]HistogramBin, bins)
	for i := range s.Histogram {
		s.Histogram[i] = HistogramBin{
			Low:   dividers[i],
			High:  dividers[i+1],
			Count: int(counts[i]),
		}
	}

	return s, nil
}
