package trainer

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/net/feedforward"
import "github.com/neurlang/surrogate/parallel"

// gradient holds one flat slice per parameter tensor, in the order
// W0, B0, W1, B1, ...
type gradient struct {
	tensors [][]float64
	sse     float64 // sum of squared errors of the rows seen
}

func newGradient(net *feedforward.Network) *gradient {
	g := new(gradient)
	for _, l := range net.Layers {
		g.tensors = append(g.tensors, make([]float64, l.Inputs()*l.Units()), make([]float64, l.Units()))
	}
	return g
}

func (g *gradient) reset() {
	for _, t := range g.tensors {
		for i := range t {
			t[i] = 0
		}
	}
	g.sse = 0
}

func (g *gradient) add(o *gradient) {
	for n, t := range g.tensors {
		for i, v := range o.tensors[n] {
			t[i] += v
		}
	}
	g.sse += o.sse
}

// parameters returns the network's tensors as flat slices sharing storage
// with the network, in gradient order.
func parameters(net *feedforward.Network) (p [][]float64) {
	for n := range net.Layers {
		l := &net.Layers[n]
		p = append(p, l.W.RawMatrix().Data, l.B)
	}
	return
}

// accumulate adds the gradient of scale*sum((net(x)-y)^2) over the rows of
// chunk c to g, and the unscaled sum of squared errors to g.sse.
func accumulate(net *feedforward.Network, x, y *mat.Dense, c parallel.Chunk, scale float64, g *gradient) {
	_, in := x.Dims()
	_, out := y.Dims()
	xs := x.Slice(c.Begin, c.End, 0, in)
	ys := y.Slice(c.Begin, c.End, 0, out)

	z, a := net.Trace(xs)
	last := len(net.Layers) - 1

	// output error
	delta := mat.NewDense(c.Len(), out, nil)
	delta.Sub(a[last], ys)
	for i := 0; i < c.Len(); i++ {
		row := delta.RawRowView(i)
		zr := z[last].RawRowView(i)
		for j, e := range row {
			g.sse += e * e
			row[j] = scale * e * net.Layers[last].Activation.Derivative(zr[j])
		}
	}

	for n := last; n >= 0; n-- {
		l := &net.Layers[n]
		var input mat.Matrix = xs
		if n > 0 {
			input = a[n-1]
		}

		var gw mat.Dense
		gw.Mul(input.T(), delta)
		tw := g.tensors[2*n]
		for i := 0; i < l.Inputs(); i++ {
			row := gw.RawRowView(i)
			for j, v := range row {
				tw[i*l.Units()+j] += v
			}
		}
		tb := g.tensors[2*n+1]
		for i := 0; i < c.Len(); i++ {
			for j, v := range delta.RawRowView(i) {
				tb[j] += v
			}
		}

		if n == 0 {
			break
		}
		prev := mat.NewDense(c.Len(), l.Inputs(), nil)
		prev.Mul(delta, l.W.T())
		act := net.Layers[n-1].Activation
		prev.Apply(func(i, j int, v float64) float64 {
			return v * act.Derivative(z[n-1].At(i, j))
		}, prev)
		delta = prev
	}
}
