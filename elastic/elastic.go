// Package elastic implements the isotropic linear elastic (Hookean) law used
// to label synthetic strain samples.
//
// Strains and stresses are Voigt vectors in the network order
// xx, yy, zz, xy, yz, zx. The stiffness matrix couples only the three normal
// components, so the order of the three shear slots is a free convention.
package elastic

import "math"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/errs"

// Components is the number of independent components of a symmetric 3x3 tensor.
const Components = 6

// Voigt is a symmetric tensor in Voigt notation, network order.
type Voigt [Components]float64

// Slice returns the components as a slice sharing v's storage.
func (v *Voigt) Slice() []float64 {
	return v[:]
}

// Parameters are the Lamé parameters of an isotropic material.
type Parameters struct {
	Lambda float64 // first Lamé parameter
	Mu     float64 // shear modulus
}

// FromEngineering derives Lamé parameters from Young's modulus e and
// Poisson's ratio nu. It reports a configuration error when e is not positive
// or nu lies outside (-1, 0.5).
func FromEngineering(e, nu float64) (Parameters, error) {
	if !(e > 0) || math.IsInf(e, 0) {
		return Parameters{}, errs.Configuration("material.youngs_modulus", "> 0", e)
	}
	if !(nu > -1 && nu < 0.5) {
		return Parameters{}, errs.Configuration("material.poisson_ratio", "in (-1, 0.5)", nu)
	}
	return Parameters{
		Lambda: e * nu / ((1 + nu) * (1 - 2*nu)),
		Mu:     e / (2 * (1 + nu)),
	}, nil
}

// Stiffness builds the 6x6 stiffness matrix: 2mu on the diagonal, lambda in
// the normal-normal block, lambda+2mu on the normal diagonal, no shear coupling.
func Stiffness(p Parameters) *mat.Dense {
	ce := mat.NewDense(Components, Components, nil)
	for i := 0; i < Components; i++ {
		ce.Set(i, i, 2*p.Mu)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ce.Set(i, j, p.Lambda)
		}
		ce.Set(i, i, ce.At(i, i)+2*p.Mu)
	}
	return ce
}

// Stress returns ce times strain.
func Stress(ce mat.Matrix, strain Voigt) (stress Voigt) {
	out := mat.NewVecDense(Components, stress[:])
	out.MulVec(ce, mat.NewVecDense(Components, strain[:]))
	return
}
