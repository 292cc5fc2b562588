// Package nn implements a small 1-D convolutional neural network for binary
// waveform classification: two convolution+pooling blocks, dropout, a dense
// hidden layer, and a sigmoid output giving the arrhythmia probability.
package nn

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"golang.org/x/exp/rand"
)

// Fixed architecture hyperparameters.
const (
	conv1Filters = 16
	conv1Kernel  = 5
	conv2Filters = 32
	conv2Kernel  = 3
	poolWidth    = 2
	dropoutRate  = 0.5
	hiddenUnits  = 64
)

// Network is a 1-D convolutional binary classifier over single-channel
// waveforms of a fixed length.
type Network struct {
	inputLen int
	flatLen  int

	conv1 *conv1d
	pool1 *maxPool1d
	conv2 *conv1d
	pool2 *maxPool1d
	drop  *dropout
	fc1   *dense
	fc2   *dense
}

// NewNetwork builds the fixed architecture for the given waveform length.
// The random source drives weight initialization and dropout masks.
func NewNetwork(inputLen int, rng *rand.Rand) (*Network, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source must not be nil")
	}

	l1 := inputLen - conv1Kernel + 1
	p1 := l1 / poolWidth
	l2 := p1 - conv2Kernel + 1
	p2 := l2 / poolWidth
	if p2 < 1 {
		return nil, fmt.Errorf("input length %d is too short for the architecture", inputLen)
	}

	n := &Network{
		inputLen: inputLen,
		flatLen:  p2 * conv2Filters,
		conv1:    newConv1d(1, conv1Filters, conv1Kernel, rng),
		pool1:    newMaxPool1d(poolWidth),
		conv2:    newConv1d(conv1Filters, conv2Filters, conv2Kernel, rng),
		pool2:    newMaxPool1d(poolWidth),
		drop:     newDropout(dropoutRate, rng),
	}
	n.fc1 = newDense(n.flatLen, hiddenUnits, true, rng)
	n.fc2 = newDense(hiddenUnits, 1, false, rng)
	return n, nil
}

// InputLen returns the waveform length the network was built for.
func (n *Network) InputLen() int {
	return n.inputLen
}

// forward runs one waveform through the network and returns the arrhythmia
// probability. The input is lifted into an explicit single-channel map, the
// input contract of the first convolutional stage.
func (n *Network) forward(x []float64, train bool) float64 {
	a := n.conv1.forward([][]float64{x})
	a = n.pool1.forward(a)
	a = n.conv2.forward(a)
	a = n.pool2.forward(a)
	flat := flatten(a)
	flat = n.drop.forward(flat, train)
	h := n.fc1.forward(flat)
	z := n.fc2.forward(h)
	return sigmoid(z[0])
}

// backward propagates the binary cross-entropy gradient. For a sigmoid output
// the gradient w.r.t. the logit is p - y.
func (n *Network) backward(p, y float64) {
	g := n.fc2.backward([]float64{p - y})
	g = n.fc1.backward(g)
	g = n.drop.backward(g)
	gmap := unflatten(g, conv2Filters)
	gm := n.pool2.backward(gmap)
	gm = n.conv2.backward(gm)
	gm = n.pool1.backward(gm)
	n.conv1.backward(gm)
}

// Predict returns the arrhythmia probability for one waveform.
func (n *Network) Predict(x []float64) (float64, error) {
	if len(x) != n.inputLen {
		return 0, fmt.Errorf("waveform length %d does not match network input length %d",
			len(x), n.inputLen)
	}
	return n.forward(x, false), nil
}

// PredictBatch returns arrhythmia probabilities for a batch of waveforms.
func (n *Network) PredictBatch(xs [][]float64) ([]float64, error) {
	probs := make([]float64, len(xs))
	for i, x := range xs {
		p, err := n.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		probs[i] = p
	}
	return probs, nil
}

// Summary renders an architecture summary with output shapes and parameter
// counts per layer.
func (n *Network) Summary() string {
	l1 := n.conv1.outLen(n.inputLen)
	p1 := n.pool1.outLen(l1)
	l2 := n.conv2.outLen(p1)
	p2 := n.pool2.outLen(l2)

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Layer\tOutput Shape\tParams")
	fmt.Fprintln(w, "-----\t------------\t------")
	fmt.Fprintf(w, "conv1d (ReLU)\t(%d, %d)\t%d\n", l1, conv1Filters, n.conv1.paramCount())
	fmt.Fprintf(w, "maxpool1d\t(%d, %d)\t0\n", p1, conv1Filters)
	fmt.Fprintf(w, "conv1d (ReLU)\t(%d, %d)\t%d\n", l2, conv2Filters, n.conv2.paramCount())
	fmt.Fprintf(w, "maxpool1d\t(%d, %d)\t0\n", p2, conv2Filters)
	fmt.Fprintf(w, "flatten\t(%d)\t0\n", n.flatLen)
	fmt.Fprintf(w, "dropout (%.1f)\t(%d)\t0\n", dropoutRate, n.flatLen)
	fmt.Fprintf(w, "dense (ReLU)\t(%d)\t%d\n", hiddenUnits, n.fc1.paramCount())
	fmt.Fprintf(w, "dense (Sigmoid)\t(1)\t%d\n", n.fc2.paramCount())
	w.Flush()
	fmt.Fprintf(&sb, "Total params: %d\n", n.paramTotal())
	return sb.String()
}

func (n *Network) paramTotal() int {
	return n.conv1.paramCount() + n.conv2.paramCount() + n.fc1.paramCount() + n.fc2.paramCount()
}

// param pairs a weight slice with its gradient accumulator.
type param struct {
	w []float64
	g []float64
}

func (n *Network) params() []param {
	return []param{
		{n.conv1.w, n.conv1.gw},
		{n.conv1.b, n.conv1.gb},
		{n.conv2.w, n.conv2.gw},
		{n.conv2.b, n.conv2.gb},
		{n.fc1.w, n.fc1.gw},
		{n.fc1.b, n.fc1.gb},
		{n.fc2.w, n.fc2.gw},
		{n.fc2.b, n.fc2.gb},
	}
}

func (n *Network) zeroGrads() {
	for _, p := range n.params() {
		for i := range p.g {
			p.g[i] = 0
		}
	}
}

// snapshot copies the current weights, used to restore the best epoch after
// early stopping.
func (n *Network) snapshot() [][]float64 {
	ps := n.params()
	out := make([][]float64, len(ps))
	for i, p := range ps {
		out[i] = make([]float64, len(p.w))
		copy(out[i], p.w)
	}
	return out
}

func (n *Network) restore(weights [][]float64) {
	for i, p := range n.params() {
		copy(p.w, weights[i])
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func flatten(x [][]float64) []float64 {
	cols := len(x[0])
	out := make([]float64, len(x)*cols)
	for ch := range x {
		copy(out[ch*cols:], x[ch])
	}
	return out
}

func unflatten(x []float64, channels int) [][]float64 {
	cols := len(x) / channels
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = x[ch*cols : (ch+1)*cols]
	}
	return out
}
