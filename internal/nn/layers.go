package nn

import (
	"math"

	"golang.org/x/exp/rand"
)

// conv1d is a valid-padding, stride-1 convolution over [channel][time]
// activations followed by ReLU. Weights are flattened [out][in][kernel].
type conv1d struct {
	inCh   int
	outCh  int
	kernel int

	w  []float64
	b  []float64
	gw []float64
	gb []float64

	input  [][]float64 // cached for backward
	preact [][]float64
}

func newConv1d(inCh, outCh, kernel int, rng *rand.Rand) *conv1d {
	c := &conv1d{
		inCh:   inCh,
		outCh:  outCh,
		kernel: kernel,
		w:      make([]float64, outCh*inCh*kernel),
		b:      make([]float64, outCh),
	}
	c.gw = make([]float64, len(c.w))
	c.gb = make([]float64, len(c.b))

	// He initialization for ReLU activations.
	scale := math.Sqrt(2.0 / float64(inCh*kernel))
	for i := range c.w {
		c.w[i] = rng.NormFloat64() * scale
	}
	return c
}

func (c *conv1d) outLen(inLen int) int {
	return inLen - c.kernel + 1
}

func (c *conv1d) paramCount() int {
	return len(c.w) + len(c.b)
}

func (c *conv1d) forward(x [][]float64) [][]float64 {
	outLen := c.outLen(len(x[0]))
	c.input = x
	c.preact = alloc2d(c.outCh, outLen)
	out := alloc2d(c.outCh, outLen)

	for o := 0; o < c.outCh; o++ {
		for t := 0; t < outLen; t++ {
			sum := c.b[o]
			for i := 0; i < c.inCh; i++ {
				row := x[i]
				base := (o*c.inCh + i) * c.kernel
				for j := 0; j < c.kernel; j++ {
					sum += c.w[base+j] * row[t+j]
				}
			}
			c.preact[o][t] = sum
			if sum > 0 {
				out[o][t] = sum
			}
		}
	}
	return out
}

// backward takes the gradient w.r.t. the ReLU output, accumulates parameter
// gradients, and returns the gradient w.r.t. the layer input.
func (c *conv1d) backward(grad [][]float64) [][]float64 {
	outLen := len(grad[0])
	gin := alloc2d(c.inCh, len(c.input[0]))

	for o := 0; o < c.outCh; o++ {
		for t := 0; t < outLen; t++ {
			g := grad[o][t]
			if g == 0 || c.preact[o][t] <= 0 {
				continue
			}
			c.gb[o] += g
			for i := 0; i < c.inCh; i++ {
				row := c.input[i]
				gi := gin[i]
				base := (o*c.inCh + i) * c.kernel
				for j := 0; j < c.kernel; j++ {
					c.gw[base+j] += g * row[t+j]
					gi[t+j] += c.w[base+j] * g
				}
			}
		}
	}
	return gin
}

// maxPool1d is a non-overlapping max pooling over the time axis. A trailing
// remainder shorter than the pool width is discarded.
type maxPool1d struct {
	width  int
	inLen  int
	argmax [][]int // input index of the max per output position
}

func newMaxPool1d(width int) *maxPool1d {
	return &maxPool1d{width: width}
}

func (p *maxPool1d) outLen(inLen int) int {
	return inLen / p.width
}

func (p *maxPool1d) forward(x [][]float64) [][]float64 {
	channels := len(x)
	p.inLen = len(x[0])
	outLen := p.outLen(p.inLen)

	out := alloc2d(channels, outLen)
	p.argmax = make([][]int, channels)
	for ch := 0; ch < channels; ch++ {
		p.argmax[ch] = make([]int, outLen)
		row := x[ch]
		for t := 0; t < outLen; t++ {
			best := t * p.width
			for j := 1; j < p.width; j++ {
				if row[t*p.width+j] > row[best] {
					best = t*p.width + j
				}
			}
			out[ch][t] = row[best]
			p.argmax[ch][t] = best
		}
	}
	return out
}

func (p *maxPool1d) backward(grad [][]float64) [][]float64 {
	gin := alloc2d(len(grad), p.inLen)
	for ch := range grad {
		for t, g := range grad[ch] {
			gin[ch][p.argmax[ch][t]] += g
		}
	}
	return gin
}

// dense is a fully connected layer with an optional ReLU activation.
type dense struct {
	in   int
	out  int
	relu bool

	w  []float64 // [out][in] flattened
	b  []float64
	gw []float64
	gb []float64

	input  []float64
	preact []float64
}

func newDense(in, out int, relu bool, rng *rand.Rand) *dense {
	d := &dense{
		in:   in,
		out:  out,
		relu: relu,
		w:    make([]float64, out*in),
		b:    make([]float64, out),
	}
	d.gw = make([]float64, len(d.w))
	d.gb = make([]float64, len(d.b))

	scale := math.Sqrt(1.0 / float64(in))
	if relu {
		scale = math.Sqrt(2.0 / float64(in))
	}
	for i := range d.w {
		d.w[i] = rng.NormFloat64() * scale
	}
	return d
}

func (d *dense) paramCount() int {
	return len(d.w) + len(d.b)
}

func (d *dense) forward(x []float64) []float64 {
	d.input = x
	d.preact = make([]float64, d.out)
	out := make([]float64, d.out)
	for o := 0; o < d.out; o++ {
		sum := d.b[o]
		base := o * d.in
		for i := 0; i < d.in; i++ {
			sum += d.w[base+i] * x[i]
		}
		d.preact[o] = sum
		if d.relu && sum <= 0 {
			continue
		}
		out[o] = sum
	}
	return out
}

func (d *dense) backward(grad []float64) []float64 {
	gin := make([]float64, d.in)
	for o := 0; o < d.out; o++ {
		g := grad[o]
		if g == 0 || (d.relu && d.preact[o] <= 0) {
			continue
		}
		d.gb[o] += g
		base := o * d.in
		for i := 0; i < d.in; i++ {
			d.gw[base+i] += g * d.input[i]
			gin[i] += d.w[base+i] * g
		}
	}
	return gin
}

// dropout zeroes activations with probability rate during training and
// rescales the survivors so the expected activation is unchanged. It is an
// identity during inference.
type dropout struct {
	rate float64
	rng  *rand.Rand
	mask []float64
}

func newDropout(rate float64, rng *rand.Rand) *dropout {
	return &dropout{rate: rate, rng: rng}
}

func (d *dropout) forward(x []float64, train bool) []float64 {
	if !train || d.rate == 0 {
		d.mask = nil
		return x
	}
	keep := 1 - d.rate
	d.mask = make([]float64, len(x))
	out := make([]float64, len(x))
	for i := range x {
		if d.rng.Float64() < keep {
			d.mask[i] = 1 / keep
			out[i] = x[i] / keep
		}
	}
	return out
}

func (d *dropout) backward(grad []float64) []float64 {
	if d.mask == nil {
		return grad
	}
	gin := make([]float64, len(grad))
	for i, g := range grad {
		gin[i] = g * d.mask[i]
	}
	return gin
}

func alloc2d(rows, cols int) [][]float64 {
	backing := make([]float64, rows*cols)
	out := make([][]float64, rows)
	for i := range out {
		out[i] = backing[i*cols : (i+1)*cols]
	}
	return out
}
