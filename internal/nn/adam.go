package nn

import "math"

// adam implements the Adam adaptive gradient optimizer with bias correction.
type adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64

	t int
	m [][]float64
	v [][]float64
}

func newAdam(lr float64, params []param) *adam {
	a := &adam{
		lr:    lr,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-8,
		m:     make([][]float64, len(params)),
		v:     make([][]float64, len(params)),
	}
	for i, p := range params {
		a.m[i] = make([]float64, len(p.w))
		a.v[i] = make([]float64, len(p.w))
	}
	return a
}

// step applies one update using the accumulated gradients scaled by the given
// factor (1/batchSize for mean gradients).
func (a *adam) step(params []param, scale float64) {
	a.t++
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))

	for i, p := range params {
		m, v := a.m[i], a.v[i]
		for j := range p.w {
			g := p.g[j] * scale
			m[j] = a.beta1*m[j] + (1-a.beta1)*g
			v[j] = a.beta2*v[j] + (1-a.beta2)*g*g
			p.w[j] -= a.lr * (m[j] / c1) / (math.Sqrt(v[j]/c2) + a.eps)
		}
	}
}
