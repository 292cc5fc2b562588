package dataset

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// StratifiedSplit partitions a dataset into train and test sets, preserving
// the label proportions of the full dataset in both partitions. The split is
// deterministic for a given seed.
func StratifiedSplit(d *Dataset, testFraction float64, seed uint64) (train, test *Dataset, err error) {
	if err := d.Validate(); err != nil {
		return nil, nil, err
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0,1), got %g", testFraction)
	}

	rng := rand.New(rand.NewSource(seed))

	// Group indices by class, shuffle each group, and cut proportionally.
	byClass := map[int][]int{}
	for i, l := range d.Labels {
		byClass[l] = append(byClass[l], i)
	}

	var trainIdx, testIdx []int
	for _, label := range []int{LabelNormal, LabelArrhythmia} {
		idx := byClass[label]
		if len(idx) == 0 {
			continue
		}
		rng.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})
		nTest := int(math.Round(float64(len(idx)) * testFraction))
		if nTest < 1 {
			nTest = 1
		}
		if nTest >= len(idx) {
			nTest = len(idx) - 1
		}
		testIdx = append(testIdx, idx[:nTest]...)
		trainIdx = append(trainIdx, idx[nTest:]...)
	}

	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, nil, fmt.Errorf("dataset with %d samples is too small to split", d.Len())
	}

	// Interleave classes within each partition.
	rng.Shuffle(len(trainIdx), func(i, j int) {
		trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i]
	})
	rng.Shuffle(len(testIdx), func(i, j int) {
		testIdx[i], testIdx[j] = testIdx[j], testIdx[i]
	})

	return d.subset(trainIdx), d.subset(testIdx), nil
}

// subset returns a new dataset referencing the waveforms at the given indices.
func (d *Dataset) subset(idx []int) *Dataset {
	sub := &Dataset{
		Waveforms: make([][]float64, len(idx)),
		Labels:    make([]int, len(idx)),
	}
	for i, j := range idx {
		sub.Waveforms[i] = d.Waveforms[j]
		sub.Labels[i] = d.Labels[j]
	}
	return sub
}
