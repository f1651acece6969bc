// Package feedforward implements a dense feedforward network type
package feedforward

import "math"
import "math/rand"
import "strconv"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/errs"

// Activation is the element-wise function applied after a layer's affine map.
type Activation string

const (
	ReLU   Activation = "relu"
	Linear Activation = "linear"
)

// Apply evaluates the activation at z.
func (a Activation) Apply(z float64) float64 {
	if a == ReLU {
		return math.Max(0, z)
	}
	return z
}

// Derivative evaluates the activation's derivative at pre-activation z.
// The ReLU derivative at 0 is taken as 0.
func (a Activation) Derivative(z float64) float64 {
	if a == ReLU {
		if z > 0 {
			return 1
		}
		return 0
	}
	return 1
}

// Valid reports whether a is a known activation.
func (a Activation) Valid() bool {
	return a == ReLU || a == Linear
}

// Layer is one dense layer: out = Activation(in * W + B).
type Layer struct {
	W          *mat.Dense // inputs x units
	B          []float64  // units
	Activation Activation
}

// Inputs returns the layer's input width.
func (l *Layer) Inputs() int {
	r, _ := l.W.Dims()
	return r
}

// Units returns the layer's output width.
func (l *Layer) Units() int {
	_, c := l.W.Dims()
	return c
}

// Forward returns the pre-activation z and the activation a of a batch x
// (rows x inputs). For a linear layer a and z are the same matrix.
func (l *Layer) Forward(x mat.Matrix) (z, a *mat.Dense) {
	r, _ := x.Dims()
	z = mat.NewDense(r, l.Units(), nil)
	z.Mul(x, l.W)
	for i := 0; i < r; i++ {
		row := z.RawRowView(i)
		for j := range row {
			row[j] += l.B[j]
		}
	}
	if l.Activation == Linear {
		return z, z
	}
	a = mat.NewDense(r, l.Units(), nil)
	a.Apply(func(_, _ int, v float64) float64 {
		return l.Activation.Apply(v)
	}, z)
	return z, a
}

// Network is the feedforward network, an ordered list of dense layers.
type Network struct {
	Layers []Layer
}

// Dense describes a layer to be created by New.
type Dense struct {
	Units      int
	Activation Activation
}

// New creates a network with the given input width and layers. Weights are
// drawn with he-normal initialization from rng, biases start at zero.
func New(rng *rand.Rand, inputs int, layers ...Dense) *Network {
	var f Network
	for _, d := range layers {
		f.Layers = append(f.Layers, Layer{
			W:          HeNormal(rng, inputs, d.Units),
			B:          make([]float64, d.Units),
			Activation: d.Activation,
		})
		inputs = d.Units
	}
	return &f
}

// he-normal draws from a normal truncated at two standard deviations; this
// constant is the standard deviation of the unit normal truncated that way.
const truncatedStddev = .87962566103423978

// HeNormal returns a fanIn x fanOut matrix drawn from a truncated normal with
// standard deviation sqrt(2/fanIn). Draws beyond two standard deviations are
// redrawn.
func HeNormal(rng *rand.Rand, fanIn, fanOut int) *mat.Dense {
	stddev := math.Sqrt(2/float64(fanIn)) / truncatedStddev
	data := make([]float64, fanIn*fanOut)
	for i := range data {
		z := rng.NormFloat64()
		for math.Abs(z) > 2 {
			z = rng.NormFloat64()
		}
		data[i] = z * stddev
	}
	return mat.NewDense(fanIn, fanOut, data)
}

// Inputs returns the network's input width.
func (f *Network) Inputs() int {
	if len(f.Layers) == 0 {
		return 0
	}
	return f.Layers[0].Inputs()
}

// Outputs returns the network's output width.
func (f *Network) Outputs() int {
	if len(f.Layers) == 0 {
		return 0
	}
	return f.Layers[len(f.Layers)-1].Units()
}

// Check verifies that every layer has a bias per unit, a known activation,
// and consumes the previous layer's output width.
func (f *Network) Check() error {
	if len(f.Layers) == 0 {
		return errs.Shape("feedforward.Check", "layers", 1, 0)
	}
	for n := range f.Layers {
		l := &f.Layers[n]
		if l.W == nil {
			return errs.Shape("feedforward.Check", "layer "+strconv.Itoa(n)+" weights", 1, 0)
		}
		if len(l.B) != l.Units() {
			return errs.Shape("feedforward.Check", "layer "+strconv.Itoa(n)+" bias", l.Units(), len(l.B))
		}
		if !l.Activation.Valid() {
			return &errs.Error{Kind: errs.KindShapeMismatch, Op: "feedforward.Check",
				Param: "layer " + strconv.Itoa(n) + " activation", Expected: "relu or linear", Actual: string(l.Activation)}
		}
		if n > 0 && l.Inputs() != f.Layers[n-1].Units() {
			return errs.Shape("feedforward.Check", "layer "+strconv.Itoa(n)+" inputs", f.Layers[n-1].Units(), l.Inputs())
		}
	}
	return nil
}

// Forward computes the network output for a batch x (rows x Inputs()).
func (f *Network) Forward(x mat.Matrix) (*mat.Dense, error) {
	if _, c := x.Dims(); c != f.Inputs() {
		return nil, errs.Shape("feedforward.Forward", "columns", f.Inputs(), c)
	}
	var out mat.Matrix = x
	var a *mat.Dense
	for n := range f.Layers {
		_, a = f.Layers[n].Forward(out)
		out = a
	}
	return a, nil
}

// Trace computes the network output like Forward and also returns every
// layer's pre-activation and activation, as needed for backpropagation.
func (f *Network) Trace(x mat.Matrix) (z, a []*mat.Dense) {
	var in mat.Matrix = x
	for n := range f.Layers {
		zn, an := f.Layers[n].Forward(in)
		z = append(z, zn)
		a = append(a, an)
		in = an
	}
	return
}

// Clone returns a deep copy of the network.
func (f *Network) Clone() *Network {
	var o Network
	for _, l := range f.Layers {
		o.Layers = append(o.Layers, Layer{
			W:          mat.DenseCopyOf(l.W),
			B:          append([]float64(nil), l.B...),
			Activation: l.Activation,
		})
	}
	return &o
}
