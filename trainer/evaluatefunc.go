package trainer

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/errs"
import "github.com/neurlang/surrogate/net/feedforward"

// Evaluate returns the mean squared error of net(x) against y over all rows
// and outputs.
func Evaluate(net *feedforward.Network, x, y *mat.Dense) (float64, error) {
	pred, err := net.Forward(x)
	if err != nil {
		return 0, err
	}
	pr, pc := pred.Dims()
	yr, yc := y.Dims()
	if pr != yr {
		return 0, errs.Shape("trainer.Evaluate", "target rows", pr, yr)
	}
	if pc != yc {
		return 0, errs.Shape("trainer.Evaluate", "target columns", pc, yc)
	}
	return MeanSquaredError(pred, y), nil
}

// MeanSquaredError returns mean((a-b)^2) over all elements of two matrices
// of the same shape.
func MeanSquaredError(a, b mat.Matrix) float64 {
	r, c := a.Dims()
	var diff mat.Dense
	diff.Sub(a, b)
	var sum float64
	for i := 0; i < r; i++ {
		for _, v := range diff.RawRowView(i) {
			sum += v * v
		}
	}
	return sum / float64(r*c)
}

// NewEvaluateFunc returns a function reporting the current mean squared
// error of net on a fixed set. Shapes are checked by the caller.
func NewEvaluateFunc(net *feedforward.Network, x, y *mat.Dense) func() float64 {
	return func() float64 {
		loss, err := Evaluate(net, x, y)
		if err != nil {
			println(err.Error())
		}
		return loss
	}
}
