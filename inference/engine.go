package inference

import "strconv"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/artifact"
import "github.com/neurlang/surrogate/elastic"
import "github.com/neurlang/surrogate/errs"
import "github.com/neurlang/surrogate/net/feedforward"
import "github.com/neurlang/surrogate/scaler"

// Engine maps raw strains to raw stresses.
type Engine struct {
	x, y    *scaler.MinMax
	net     *feedforward.Network
	reorder *Reorder
}

// New creates an engine from the strain scaler, the stress scaler and a
// trained network with elastic.Components inputs and outputs.
func New(x, y *scaler.MinMax, net *feedforward.Network) (*Engine, error) {
	if !x.Fitted() || !y.Fitted() {
		return nil, errs.NotFitted("inference.New")
	}
	if err := net.Check(); err != nil {
		return nil, err
	}
	if net.Inputs() != elastic.Components {
		return nil, errs.Shape("inference.New", "network inputs", elastic.Components, net.Inputs())
	}
	if net.Outputs() != elastic.Components {
		return nil, errs.Shape("inference.New", "network outputs", elastic.Components, net.Outputs())
	}
	if x.Features() != elastic.Components {
		return nil, errs.Shape("inference.New", "strain scaler features", elastic.Components, x.Features())
	}
	if y.Features() != elastic.Components {
		return nil, errs.Shape("inference.New", "stress scaler features", elastic.Components, y.Features())
	}
	return &Engine{x: x, y: y, net: net}, nil
}

// Load creates an engine from the scalers and weights in an artifact store.
func Load(s *artifact.Store) (*Engine, error) {
	x, err := s.LoadScaler(artifact.XScaler)
	if err != nil {
		return nil, err
	}
	y, err := s.LoadScaler(artifact.YScaler)
	if err != nil {
		return nil, err
	}
	net, err := s.LoadWeights()
	if err != nil {
		return nil, err
	}
	return New(x, y, net)
}

// WithReorder returns a copy of the engine whose inputs and outputs are in
// the host component order described by r.
func (e *Engine) WithReorder(r Reorder) *Engine {
	o := *e
	o.reorder = &r
	return &o
}

// Predict returns the stresses for the strain rows of x.
func (e *Engine) Predict(x mat.Matrix) (*mat.Dense, error) {
	if _, c := x.Dims(); c != elastic.Components {
		return nil, errs.Shape("inference.Predict", "columns", elastic.Components, c)
	}
	if e.reorder != nil {
		x = e.reorder.ToNetwork(x)
	}
	in, err := e.x.Transform(x)
	if err != nil {
		return nil, err
	}
	out, err := e.net.Forward(in)
	if err != nil {
		return nil, err
	}
	y, err := e.y.InverseTransform(out)
	if err != nil {
		return nil, err
	}
	if e.reorder != nil {
		y = e.reorder.ToHost(y)
	}
	return y, nil
}

// PredictInto evaluates len(strain)/6 material points held row by row in a
// host buffer and writes the stresses into the caller's stress buffer. The
// lengths are checked before anything is written.
func (e *Engine) PredictInto(stress, strain []float64) error {
	if len(strain)%elastic.Components != 0 {
		return &errs.Error{Kind: errs.KindShapeMismatch, Op: "inference.PredictInto",
			Param: "strain length", Expected: "a multiple of 6", Actual: strconv.Itoa(len(strain))}
	}
	if len(stress) != len(strain) {
		return errs.Shape("inference.PredictInto", "stress length", len(strain), len(stress))
	}
	if len(strain) == 0 {
		return nil
	}
	out, err := e.Predict(mat.NewDense(len(strain)/elastic.Components, elastic.Components, strain))
	if err != nil {
		return err
	}
	copy(stress, out.RawMatrix().Data)
	return nil
}
