package learning

import "math"

// Adam keeps the moment estimates of a fixed list of parameter tensors.
// Each tensor is a flat slice; the list order must stay the same between
// steps.
type Adam struct {
	h *HyperParameters
	t int

	m, v, vhat [][]float64
}

// NewAdam creates optimizer state for tensors of the given sizes.
func NewAdam(h *HyperParameters, sizes ...int) *Adam {
	a := &Adam{h: h}
	for _, n := range sizes {
		a.m = append(a.m, make([]float64, n))
		a.v = append(a.v, make([]float64, n))
		if h.AMSGrad {
			a.vhat = append(a.vhat, make([]float64, n))
		}
	}
	return a
}

// Steps returns the number of updates applied so far.
func (a *Adam) Steps() int {
	return a.t
}

// Step applies one update to params using grads, both in the order the
// optimizer was created with:
//
//	m = b1*m + (1-b1)*g
//	v = b2*v + (1-b2)*g*g
//	vhat = max(vhat, v)              (amsgrad only)
//	p -= lr*sqrt(1-b2^t)/(1-b1^t) * m / (sqrt(v or vhat) + eps)
func (a *Adam) Step(params, grads [][]float64) {
	a.t++
	h := a.h
	b1, b2 := h.Beta1, h.Beta2
	lr := h.LearningRate * math.Sqrt(1-math.Pow(b2, float64(a.t))) / (1 - math.Pow(b1, float64(a.t)))
	for n, p := range params {
		g, m, v := grads[n], a.m[n], a.v[n]
		for i := range p {
			m[i] = b1*m[i] + (1-b1)*g[i]
			v[i] = b2*v[i] + (1-b2)*g[i]*g[i]
			second := v[i]
			if h.AMSGrad {
				vhat := a.vhat[n]
				if v[i] > vhat[i] {
					vhat[i] = v[i]
				}
				second = vhat[i]
			}
			p[i] -= lr * m[i] / (math.Sqrt(second) + h.Epsilon)
		}
	}
}
