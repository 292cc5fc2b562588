package nn

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// FitConfig controls the training loop.
type FitConfig struct {
	Epochs             int     // maximum epochs (default 30)
	BatchSize          int     // mini-batch size (default 32)
	LearningRate       float64 // Adam learning rate (default 1e-3)
	Patience           int     // early-stopping patience in epochs (default 5)
	ValidationFraction float64 // carve-out from the training set (default 0.2)
	Seed               uint64  // shuffling seed

	// OnEpoch, if set, is invoked after every completed epoch.
	OnEpoch func(EpochStats)
}

func (c *FitConfig) applyDefaults() {
	if c.Epochs == 0 {
		c.Epochs = 30
	}
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
	if c.LearningRate == 0 {
		c.LearningRate = 1e-3
	}
	if c.Patience == 0 {
		c.Patience = 5
	}
	if c.ValidationFraction == 0 {
		c.ValidationFraction = 0.2
	}
}

// EpochStats holds per-epoch training metrics.
type EpochStats struct {
	Epoch         int
	TrainLoss     float64
	TrainAccuracy float64
	ValLoss       float64
	ValAccuracy   float64
}

// History is the record of a completed training run. The network is left at
// the weights of BestEpoch, not necessarily the last epoch trained.
type History struct {
	Epochs    []EpochStats
	BestEpoch int  // epoch index with the lowest validation loss
	Stopped   bool // true when early stopping ended training before the budget
}

// Best returns the stats of the best-observed epoch.
func (h *History) Best() EpochStats {
	return h.Epochs[h.BestEpoch]
}

// Fit trains the network on the labeled waveforms. A validation set is carved
// out of the input, mini-batches are shuffled every epoch, and training stops
// early once the validation loss has not improved for Patience consecutive
// epochs. On return the weights of the best validation epoch are in place.
func (n *Network) Fit(waveforms [][]float64, labels []int, cfg FitConfig) (*History, error) {
	cfg.applyDefaults()

	if cfg.Epochs < 1 {
		return nil, fmt.Errorf("epochs must be positive, got %d", cfg.Epochs)
	}
	if cfg.BatchSize < 1 {
		return nil, fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize)
	}
	if len(waveforms) != len(labels) {
		return nil, fmt.Errorf("waveform count %d does not match label count %d",
			len(waveforms), len(labels))
	}
	if len(waveforms) < 2 {
		return nil, fmt.Errorf("need at least 2 samples to train, got %d", len(waveforms))
	}
	if cfg.ValidationFraction <= 0 || cfg.ValidationFraction >= 1 {
		return nil, fmt.Errorf("validation fraction must be in (0,1), got %g", cfg.ValidationFraction)
	}
	for i, w := range waveforms {
		if len(w) != n.inputLen {
			return nil, fmt.Errorf("waveform %d has length %d, want %d", i, len(w), n.inputLen)
		}
	}
	for i, l := range labels {
		if l != 0 && l != 1 {
			return nil, fmt.Errorf("label %d has invalid value %d", i, l)
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	// Validation carve-out.
	idx := rng.Perm(len(waveforms))
	nVal := int(float64(len(idx)) * cfg.ValidationFraction)
	if nVal < 1 {
		nVal = 1
	}
	if nVal >= len(idx) {
		nVal = len(idx) - 1
	}
	valIdx := idx[:nVal]
	trainIdx := idx[nVal:]

	opt := newAdam(cfg.LearningRate, n.params())

	hist := &History{}
	bestLoss := math.Inf(1)
	var bestWeights [][]float64
	wait := 0

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		rng.Shuffle(len(trainIdx), func(i, j int) {
			trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i]
		})

		var trainLoss float64
		trainCorrect := 0
		for off := 0; off < len(trainIdx); off += cfg.BatchSize {
			end := off + cfg.BatchSize
			if end > len(trainIdx) {
				end = len(trainIdx)
			}
			batch := trainIdx[off:end]

			n.zeroGrads()
			for _, s := range batch {
				y := float64(labels[s])
				p := n.forward(waveforms[s], true)
				trainLoss += bce(p, y)
				if predicted(p) == labels[s] {
					trainCorrect++
				}
				n.backward(p, y)
			}
			opt.step(n.params(), 1/float64(len(batch)))
		}

		var valLoss float64
		valCorrect := 0
		for _, s := range valIdx {
			p := n.forward(waveforms[s], false)
			valLoss += bce(p, float64(labels[s]))
			if predicted(p) == labels[s] {
				valCorrect++
			}
		}

		stats := EpochStats{
			Epoch:         epoch,
			TrainLoss:     trainLoss / float64(len(trainIdx)),
			TrainAccuracy: float64(trainCorrect) / float64(len(trainIdx)),
			ValLoss:       valLoss / float64(len(valIdx)),
			ValAccuracy:   float64(valCorrect) / float64(len(valIdx)),
		}
		hist.Epochs = append(hist.Epochs, stats)
		if cfg.OnEpoch != nil {
			cfg.OnEpoch(stats)
		}

		if stats.ValLoss < bestLoss {
			bestLoss = stats.ValLoss
			hist.BestEpoch = epoch
			bestWeights = n.snapshot()
			wait = 0
		} else {
			wait++
			if wait >= cfg.Patience {
				hist.Stopped = true
				break
			}
		}
	}

	if bestWeights != nil {
		n.restore(bestWeights)
	}

	return hist, nil
}

// bce is the binary cross-entropy of one prediction, with the probability
// clamped away from 0 and 1 to keep the loss finite.
func bce(p, y float64) float64 {
	const eps = 1e-7
	if p < eps {
		p = eps
	}
	if p > 1-eps {
		p = 1 - eps
	}
	return -(y*math.Log(p) + (1-y)*math.Log(1-p))
}

func predicted(p float64) int {
	if p >= 0.5 {
		return 1
	}
	return 0
}
