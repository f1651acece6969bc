package datasets

import "math"
import "math/rand"
import "testing"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/errs"

func checkPartition(t *testing.T, p Partition, n int) {
	t.Helper()
	seen := make(map[int]string)
	for name, set := range map[string][]int{"train": p.Train, "validation": p.Validation, "test": p.Test} {
		for _, i := range set {
			if i < 0 || i >= n {
				t.Fatalf("%s index %d out of range", name, i)
			}
			if other, dup := seen[i]; dup {
				t.Fatalf("index %d in both %s and %s", i, other, name)
			}
			seen[i] = name
		}
	}
	if len(seen) != n {
		t.Errorf("union has %d indices, want %d", len(seen), n)
	}
}

func TestSplitSizes(t *testing.T) {
	p, err := Split(100, [3]float64{0.7, 0.2, 0.1}, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Train) != 70 || len(p.Validation) != 20 || len(p.Test) != 10 {
		t.Errorf("sizes = %d/%d/%d, want 70/20/10", len(p.Train), len(p.Validation), len(p.Test))
	}
	checkPartition(t, p, 100)
}

func TestSplitManySeeds(t *testing.T) {
	testCases := []struct {
		n int
		f [3]float64
	}{
		{1, [3]float64{1, 0, 0}},
		{7, [3]float64{0.5, 0.25, 0.25}},
		{33, [3]float64{0.6, 0.2, 0.1}},
		{1000, [3]float64{0.7, 0.2, 0.1}},
		{10, [3]float64{0, 0, 1}},
	}
	for seed := int64(0); seed < 20; seed++ {
		for _, tc := range testCases {
			p, err := Split(tc.n, tc.f, rand.New(rand.NewSource(seed)))
			if err != nil {
				t.Fatalf("Split(%d, %v): %v", tc.n, tc.f, err)
			}
			checkPartition(t, p, tc.n)
		}
	}
}

func TestSplitRemainderGoesToTest(t *testing.T) {
	// fractions do not sum to one, the residual lands in the test set
	p, err := Split(10, [3]float64{0.5, 0.2, 0}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Train) != 5 || len(p.Validation) != 2 || len(p.Test) != 3 {
		t.Errorf("sizes = %d/%d/%d, want 5/2/3", len(p.Train), len(p.Validation), len(p.Test))
	}
	for i := 1; i < len(p.Test); i++ {
		if p.Test[i-1] >= p.Test[i] {
			t.Errorf("test indices not ascending: %v", p.Test)
		}
	}
}

func TestSplitHalfToEven(t *testing.T) {
	// 0.375*20 = 7.5 rounds to 8, 0.125*20 = 2.5 rounds to 2
	p, err := Split(20, [3]float64{0.375, 0.125, 0.5}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Train) != 8 || len(p.Validation) != 2 || len(p.Test) != 10 {
		t.Errorf("sizes = %d/%d/%d, want 8/2/10", len(p.Train), len(p.Validation), len(p.Test))
	}
}

func TestSplitDeterministic(t *testing.T) {
	a, _ := Split(50, [3]float64{0.7, 0.2, 0.1}, rand.New(rand.NewSource(9)))
	b, _ := Split(50, [3]float64{0.7, 0.2, 0.1}, rand.New(rand.NewSource(9)))
	for i := range a.Train {
		if a.Train[i] != b.Train[i] {
			t.Fatalf("same seed gave different splits")
		}
	}
}

func TestSplitErrors(t *testing.T) {
	testCases := []struct {
		name string
		n    int
		f    [3]float64
	}{
		{"no samples", 0, [3]float64{0.7, 0.2, 0.1}},
		{"negative", 10, [3]float64{0.7, -0.2, 0.1}},
		{"overfull", 10, [3]float64{0.8, 0.3, 0}},
		{"infinite", 100, [3]float64{math.Inf(1), 0, 0}},
		{"huge", 100, [3]float64{1e300, 0, 0}},
		{"above one", 100, [3]float64{1.5, 0, 0}},
		{"nan", 100, [3]float64{0.5, math.NaN(), 0}},
		{"infinite test", 100, [3]float64{0.5, 0.5, math.Inf(1)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Split(tc.n, tc.f, rand.New(rand.NewSource(1)))
			if !errs.Is(err, errs.KindConfiguration) {
				t.Errorf("error = %v, want configuration error", err)
			}
		})
	}
}

func TestGather(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{0, 1, 10, 11, 20, 21})
	y := mat.NewDense(3, 2, []float64{0, -1, -10, -11, -20, -21})
	s := Gather(x, y, []int{2, 0})
	want := mat.NewDense(2, 2, []float64{20, 21, 0, 1})
	if !mat.Equal(s.X, want) {
		t.Errorf("X = %v", mat.Formatted(s.X))
	}
	if s.Y.At(0, 1) != -21 || s.Len() != 2 {
		t.Errorf("Y = %v", mat.Formatted(s.Y))
	}
	x.Set(2, 0, 99)
	if s.X.At(0, 0) != 20 {
		t.Error("Gather must copy rows")
	}
	if empty := Gather(x, y, nil); empty.X != nil || empty.Len() != 0 {
		t.Error("empty gather must have nil matrices")
	}
}

func TestFingerprint(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(3, 1, []float64{7, 8, 9})
	a := Fingerprint(x, y, 1)
	if b := Fingerprint(x, y, 4); a != b {
		t.Fatalf("fingerprint depends on threads: %s %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("fingerprint %q", a)
	}
	y.Set(2, 0, 9.5)
	if Fingerprint(x, y, 2) == a {
		t.Errorf("fingerprint ignores a changed label")
	}
}
