package strain

import "math"
import "math/rand"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/elastic"
import "github.com/neurlang/surrogate/errs"

// Generator draws random strain vectors whose equivalent strain never
// exceeds MaxAbsStrain.
type Generator struct {
	MaxAbsStrain float64
	Rand         *rand.Rand
}

// NewGenerator returns a generator seeded with seed. The cap must be
// positive and finite.
func NewGenerator(maxAbsStrain float64, seed int64) (*Generator, error) {
	if !(maxAbsStrain > 0) || math.IsInf(maxAbsStrain, 0) {
		return nil, errs.Configuration("samples.max_abs_strain", "> 0", maxAbsStrain)
	}
	return &Generator{
		MaxAbsStrain: maxAbsStrain,
		Rand:         rand.New(rand.NewSource(seed)),
	}, nil
}

// Draw returns one strain vector. Six standard normal values z are mapped to
// z*2*max-max; if the equivalent strain of the result exceeds max the whole
// vector is scaled down onto the cap.
func (g *Generator) Draw() (s elastic.Voigt) {
	c := g.MaxAbsStrain
	for i := range s {
		s[i] = g.Rand.NormFloat64()*2*c - c
	}
	Cap(&s, c)
	return
}

// Equivalent returns sqrt(2/3 * sum(dev_i^2)), where dev removes the mean of
// the three normal components from those components and keeps the shear
// components unchanged.
func Equivalent(s elastic.Voigt) float64 {
	trace := (s[0] + s[1] + s[2]) / 3
	var sum float64
	for i, v := range s {
		if i < 3 {
			v -= trace
		}
		sum += v * v
	}
	return math.Sqrt(2.0 / 3.0 * sum)
}

// Cap scales s uniformly so that Equivalent(s) <= limit. The bound is hard:
// when rounding leaves the scaled vector above limit it keeps shrinking by
// one ulp of the scale factor. A negative limit is treated as 0; a NaN limit
// leaves s unchanged.
func Cap(s *elastic.Voigt, limit float64) {
	if math.IsNaN(limit) {
		return
	}
	if limit < 0 {
		limit = 0
	}
	eq := Equivalent(*s)
	if !(eq > limit) {
		return
	}
	scale := limit / eq
	for {
		var t = *s
		for i := range t {
			t[i] *= scale
		}
		if Equivalent(t) <= limit {
			*s = t
			return
		}
		scale = math.Nextafter(scale, 0)
	}
}

// Label returns the elastic stress of strain s under stiffness ce.
func Label(ce mat.Matrix, s elastic.Voigt) elastic.Voigt {
	return elastic.Stress(ce, s)
}
