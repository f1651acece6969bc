package inference

import "strconv"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/elastic"
import "github.com/neurlang/surrogate/errs"

// Reorder maps a host's component order to the network's Voigt order
// (xx, yy, zz, xy, yz, zx): network component i is host component Perm[i].
type Reorder struct {
	Perm [elastic.Components]int
}

// HostSymmTensor is the order of a symmetric tensor stored as
// (xx, xy, xz, yy, yz, zz).
var HostSymmTensor = Reorder{Perm: [elastic.Components]int{0, 3, 5, 1, 4, 2}}

// Identity leaves the components in network order.
var Identity = Reorder{Perm: [elastic.Components]int{0, 1, 2, 3, 4, 5}}

// NewReorder checks that perm is a permutation of 0..5.
func NewReorder(perm [elastic.Components]int) (Reorder, error) {
	var seen [elastic.Components]bool
	for i, p := range perm {
		if p < 0 || p >= elastic.Components || seen[p] {
			return Reorder{}, &errs.Error{Kind: errs.KindShapeMismatch, Op: "inference.NewReorder",
				Param: "perm", Expected: "a permutation of 0..5", Actual: "element " + strconv.Itoa(i)}
		}
		seen[p] = true
	}
	return Reorder{Perm: perm}, nil
}

// Inverse returns the reorder that undoes r.
func (r Reorder) Inverse() (o Reorder) {
	for i, p := range r.Perm {
		o.Perm[p] = i
	}
	return
}

// Voigt converts one host row to network order.
func (r Reorder) Voigt(host []float64) (v elastic.Voigt) {
	for i, p := range r.Perm {
		v[i] = host[p]
	}
	return
}

// Host writes a network order row into a host row.
func (r Reorder) Host(dst []float64, v elastic.Voigt) {
	for i, p := range r.Perm {
		dst[p] = v[i]
	}
}

// ToNetwork returns a copy of the host rows of x in network order.
func (r Reorder) ToNetwork(x mat.Matrix) *mat.Dense {
	return permuteColumns(x, r.Perm)
}

// ToHost returns a copy of the network rows of x in host order.
func (r Reorder) ToHost(x mat.Matrix) *mat.Dense {
	return permuteColumns(x, r.Inverse().Perm)
}

// permuteColumns sets column i of the result to column perm[i] of x.
func permuteColumns(x mat.Matrix, perm [elastic.Components]int) *mat.Dense {
	rows, _ := x.Dims()
	o := mat.NewDense(rows, elastic.Components, nil)
	for i := 0; i < rows; i++ {
		row := o.RawRowView(i)
		for j, p := range perm {
			row[j] = x.At(i, p)
		}
	}
	return o
}
