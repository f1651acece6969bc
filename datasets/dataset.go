// Package datasets implements the sample set type and the train, validation
// and test partitioning of a generated sample population.
package datasets

import "math"
import "math/rand"
import "sort"
import "strconv"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/errs"

// Set is an ordered collection of (strain, stress) rows. Row r of X and Y
// is the sample with population index Indices[r]. X and Y are nil when the
// set is empty.
type Set struct {
	X, Y    *mat.Dense
	Indices []int
}

// Len returns the number of samples in the set.
func (s Set) Len() int {
	return len(s.Indices)
}

// Gather copies the rows of x and y selected by indices into a new Set.
func Gather(x, y *mat.Dense, indices []int) (o Set) {
	o.Indices = append([]int(nil), indices...)
	if len(indices) == 0 {
		return
	}
	o.X = gatherRows(x, indices)
	o.Y = gatherRows(y, indices)
	return
}

func gatherRows(m *mat.Dense, indices []int) *mat.Dense {
	_, c := m.Dims()
	out := mat.NewDense(len(indices), c, nil)
	for r, i := range indices {
		out.SetRow(r, m.RawRowView(i))
	}
	return out
}

// Partition holds three pairwise disjoint index sets over 0..N-1.
type Partition struct {
	Train      []int
	Validation []int
	Test       []int
}

// Sets gathers the three sets of the partition from the population x, y.
func (p Partition) Sets(x, y *mat.Dense) (train, validation, test Set) {
	return Gather(x, y, p.Train), Gather(x, y, p.Validation), Gather(x, y, p.Test)
}

// Sizes returns the training and validation set sizes of a split of n
// samples, round(f[0]*n) and round(f[1]*n) rounded half to even. Every
// fraction must lie in [0, 1] and the two sizes must fit into n.
func Sizes(n int, f [3]float64) (train, validation int, err error) {
	if n <= 0 {
		return 0, 0, errs.Configuration("samples.count", "> 0", n)
	}
	for _, v := range f {
		if !(v >= 0 && v <= 1) {
			return 0, 0, errs.Configuration("split", "fractions in [0, 1]", f)
		}
	}
	train = int(math.RoundToEven(f[0] * float64(n)))
	validation = int(math.RoundToEven(f[1] * float64(n)))
	if train+validation > n {
		return 0, 0, errs.Configuration("split", "round(train*n)+round(validation*n) <= "+strconv.Itoa(n), train+validation)
	}
	return train, validation, nil
}

// Split partitions 0..n-1. The training set is round(f[0]*n) indices sampled
// without replacement, the validation set round(f[1]*n) indices sampled from
// the rest, and the test set is whatever remains, in ascending order. The
// union therefore always covers 0..n-1; f[2] only has to lie in [0, 1].
// Rounding is half to even.
func Split(n int, f [3]float64, rng *rand.Rand) (p Partition, err error) {
	nTrain, nValidation, err := Sizes(n, f)
	if err != nil {
		return p, err
	}

	perm := rng.Perm(n)
	p.Train = perm[:nTrain:nTrain]

	rest := append([]int(nil), perm[nTrain:]...)
	sort.Ints(rest)
	sample(rest, nValidation, rng)
	p.Validation = rest[:nValidation:nValidation]

	p.Test = append([]int(nil), rest[nValidation:]...)
	sort.Ints(p.Test)
	return p, nil
}

// sample moves k uniformly chosen elements of s to its front, in draw order.
func sample(s []int, k int, rng *rand.Rand) {
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(s)-i)
		s[i], s[j] = s[j], s[i]
	}
}
