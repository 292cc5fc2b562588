// Package metrics evaluates binary classifier output: scalar loss and
// accuracy plus a per-class precision/recall/F1 classification report.
package metrics

import (
	"fmt"
	"math"
	"strings"
)

// DefaultThreshold converts probabilities to binary predictions.
const DefaultThreshold = 0.5

// Class names for the binary labels.
var classNames = [2]string{"Normal", "Arrhythmia"}

// ClassMetrics holds precision/recall/F1 and support for one class.
type ClassMetrics struct {
	Name      string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is the evaluation result over a labeled test partition.
type Report struct {
	Loss     float64 // mean binary cross-entropy
	Accuracy float64
	Classes  [2]ClassMetrics

	MacroPrecision    float64
	MacroRecall       float64
	MacroF1           float64
	WeightedPrecision float64
	WeightedRecall    float64
	WeightedF1        float64

	Total int
}

// LogLoss returns the mean binary cross-entropy of the probabilities against
// the true labels, with probabilities clamped away from 0 and 1.
func LogLoss(probs []float64, labels []int) (float64, error) {
	if len(probs) != len(labels) {
		return 0, fmt.Errorf("probability count %d does not match label count %d",
			len(probs), len(labels))
	}
	if len(probs) == 0 {
		return 0, fmt.Errorf("nothing to evaluate")
	}

	const eps = 1e-7
	var sum float64
	for i, p := range probs {
		if p < eps {
			p = eps
		}
		if p > 1-eps {
			p = 1 - eps
		}
		if labels[i] == 1 {
			sum += -math.Log(p)
		} else {
			sum += -math.Log(1 - p)
		}
	}
	return sum / float64(len(probs)), nil
}

// Evaluate thresholds the probabilities and computes the full report.
func Evaluate(probs []float64, labels []int, threshold float64) (*Report, error) {
	loss, err := LogLoss(probs, labels)
	if err != nil {
		return nil, err
	}
	for i, l := range labels {
		if l != 0 && l != 1 {
			return nil, fmt.Errorf("label %d has invalid value %d", i, l)
		}
	}

	// Confusion counts indexed [true][predicted].
	var confusion [2][2]int
	correct := 0
	for i, p := range probs {
		pred := 0
		if p >= threshold {
			pred = 1
		}
		confusion[labels[i]][pred]++
		if pred == labels[i] {
			correct++
		}
	}

	r := &Report{
		Loss:     loss,
		Accuracy: float64(correct) / float64(len(probs)),
		Total:    len(probs),
	}

	for c := 0; c < 2; c++ {
		tp := confusion[c][c]
		fp := confusion[1-c][c]
		fn := confusion[c][1-c]

		m := ClassMetrics{
			Name:    classNames[c],
			Support: tp + fn,
		}
		if tp+fp > 0 {
			m.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			m.Recall = float64(tp) / float64(tp+fn)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		r.Classes[c] = m

		r.MacroPrecision += m.Precision / 2
		r.MacroRecall += m.Recall / 2
		r.MacroF1 += m.F1 / 2

		weight := float64(m.Support) / float64(r.Total)
		r.WeightedPrecision += m.Precision * weight
		r.WeightedRecall += m.Recall * weight
		r.WeightedF1 += m.F1 * weight
	}

	return r, nil
}

// String renders the classification report as a fixed-width table.
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%14s %9s %9s %9s %9s\n", "", "precision", "recall", "f1-score", "support")
	sb.WriteString("\n")
	for _, m := range r.Classes {
		fmt.Fprintf(&sb, "%14s %9.2f %9.2f %9.2f %9d\n",
			m.Name, m.Precision, m.Recall, m.F1, m.Support)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%14s %9s %9s %9.2f %9d\n", "accuracy", "", "", r.Accuracy, r.Total)
	fmt.Fprintf(&sb, "%14s %9.2f %9.2f %9.2f %9d\n",
		"macro avg", r.MacroPrecision, r.MacroRecall, r.MacroF1, r.Total)
	fmt.Fprintf(&sb, "%14s %9.2f %9.2f %9.2f %9d\n",
		"weighted avg", r.WeightedPrecision, r.WeightedRecall, r.WeightedF1, r.Total)
	return sb.String()
}
