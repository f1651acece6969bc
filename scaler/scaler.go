// Package scaler implements per-feature min-max normalization.
//
// A MinMax is fit once on training rows and is read-only afterwards, so a
// fitted scaler may be shared by concurrent callers.
package scaler

import "encoding/json"

import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/errs"

// MinMax maps each feature linearly so that the fitted minimum becomes 0 and
// the fitted maximum becomes 1. A feature whose minimum equals its maximum
// is degenerate: Transform maps it to 0 and InverseTransform maps it back to
// the fitted value.
type MinMax struct {
	min, max []float64
}

// Fit computes the per-column minimum and maximum of x, whose rows are all
// timesteps of all training samples. It returns the receiver.
func (s *MinMax) Fit(x mat.Matrix) *MinMax {
	r, c := x.Dims()
	s.min = make([]float64, c)
	s.max = make([]float64, c)
	var col = make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		s.min[j] = floats.Min(col)
		s.max[j] = floats.Max(col)
	}
	return s
}

// Fitted reports whether Fit has been called.
func (s *MinMax) Fitted() bool {
	return s != nil && s.min != nil
}

// Features returns the number of fitted columns.
func (s *MinMax) Features() int {
	if !s.Fitted() {
		return 0
	}
	return len(s.min)
}

// Min returns a copy of the fitted minima.
func (s *MinMax) Min() []float64 {
	return append([]float64(nil), s.min...)
}

// Max returns a copy of the fitted maxima.
func (s *MinMax) Max() []float64 {
	return append([]float64(nil), s.max...)
}

// Transform returns the normalized copy of x.
func (s *MinMax) Transform(x mat.Matrix) (*mat.Dense, error) {
	return s.apply("scaler.Transform", x, s.TransformRow)
}

// InverseTransform returns the denormalized copy of x.
func (s *MinMax) InverseTransform(x mat.Matrix) (*mat.Dense, error) {
	return s.apply("scaler.InverseTransform", x, s.InverseTransformRow)
}

func (s *MinMax) apply(op string, x mat.Matrix, row func(dst, src []float64)) (*mat.Dense, error) {
	if !s.Fitted() {
		return nil, errs.NotFitted(op)
	}
	r, c := x.Dims()
	if c != len(s.min) {
		return nil, errs.Shape(op, "columns", len(s.min), c)
	}
	out := mat.DenseCopyOf(x)
	for i := 0; i < r; i++ {
		v := out.RawRowView(i)
		row(v, v)
	}
	return out, nil
}

// TransformRow normalizes one row, dst and src may alias. The caller is
// responsible for the scaler being fitted and both rows having Features()
// elements.
func (s *MinMax) TransformRow(dst, src []float64) {
	for j, v := range src[:len(s.min)] {
		span := s.max[j] - s.min[j]
		if span == 0 {
			dst[j] = 0
			continue
		}
		dst[j] = (v - s.min[j]) / span
	}
}

// InverseTransformRow undoes TransformRow, dst and src may alias.
func (s *MinMax) InverseTransformRow(dst, src []float64) {
	for j, v := range src[:len(s.min)] {
		dst[j] = v*(s.max[j]-s.min[j]) + s.min[j]
	}
}

type minMaxJSON struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

// MarshalJSON encodes the fitted statistics.
func (s *MinMax) MarshalJSON() ([]byte, error) {
	if !s.Fitted() {
		return nil, errs.NotFitted("scaler.MarshalJSON")
	}
	return json.Marshal(minMaxJSON{Min: s.min, Max: s.max})
}

// UnmarshalJSON decodes statistics written by MarshalJSON.
func (s *MinMax) UnmarshalJSON(data []byte) error {
	var v minMaxJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v.Min) == 0 || len(v.Min) != len(v.Max) {
		return errs.Shape("scaler.UnmarshalJSON", "max", len(v.Min), len(v.Max))
	}
	s.min, s.max = v.Min, v.Max
	return nil
}
