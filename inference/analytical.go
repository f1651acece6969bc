package inference

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/elastic"
import "github.com/neurlang/surrogate/errs"

// Predictor evaluates a constitutive law on host buffers of len/6 material
// points. Engine and Analytical implement it.
type Predictor interface {
	PredictInto(stress, strain []float64) error
}

// Analytical evaluates the exact linear elastic law, for comparison with a
// trained Engine.
type Analytical struct {
	ce      mat.Matrix
	reorder Reorder
}

// NewAnalytical returns the exact law for stiffness ce with the host
// component order r.
func NewAnalytical(ce mat.Matrix, r Reorder) (*Analytical, error) {
	if rows, cols := ce.Dims(); rows != elastic.Components || cols != elastic.Components {
		return nil, errs.Shape("inference.NewAnalytical", "stiffness size", elastic.Components, rows)
	}
	return &Analytical{ce: ce, reorder: r}, nil
}

// PredictInto follows the same buffer contract as Engine.PredictInto.
func (a *Analytical) PredictInto(stress, strain []float64) error {
	if len(strain)%elastic.Components != 0 || len(stress) != len(strain) {
		return errs.Shape("inference.PredictInto", "stress length", len(strain), len(stress))
	}
	for i := 0; i < len(strain); i += elastic.Components {
		s := elastic.Stress(a.ce, a.reorder.Voigt(strain[i:i+elastic.Components]))
		a.reorder.Host(stress[i:i+elastic.Components], s)
	}
	return nil
}
