package strain

import "math"
import "os"
import "path/filepath"
import "testing"

import "github.com/neurlang/surrogate/elastic"
import "github.com/neurlang/surrogate/errs"

func newGenerator(tb testing.TB, limit float64, seed int64) *Generator {
	g, err := NewGenerator(limit, seed)
	if err != nil {
		tb.Fatal(err)
	}
	return g
}

func TestNewGeneratorRejectsCap(t *testing.T) {
	for _, limit := range []float64{0, -1e-4, math.Inf(1), math.NaN()} {
		if _, err := NewGenerator(limit, 1); !errs.Is(err, errs.KindConfiguration) {
			t.Errorf("cap %g: got %v, want a configuration error", limit, err)
		}
	}
}

func TestCapNonPositiveLimit(t *testing.T) {
	for _, limit := range []float64{0, -1e-4, math.Inf(-1)} {
		s := elastic.Voigt{1e-4, -2e-4, 0, 5e-5, 0, 1e-5}
		Cap(&s, limit)
		if s != (elastic.Voigt{}) {
			t.Errorf("limit %g: got %v, want the zero strain", limit, s)
		}
	}
	s := elastic.Voigt{1e-4, 0, 0, 0, 0, 0}
	Cap(&s, math.NaN())
	if s != (elastic.Voigt{1e-4, 0, 0, 0, 0, 0}) {
		t.Errorf("NaN limit changed the strain to %v", s)
	}
}

func TestEquivalentStrainCapped(t *testing.T) {
	for _, limit := range []float64{1e-5, 5e-5, 1e-4, 0.05, 1} {
		for seed := int64(0); seed < 50; seed++ {
			g := newGenerator(t, limit, seed)
			for i := 0; i < 200; i++ {
				s := g.Draw()
				if eq := Equivalent(s); eq > limit {
					t.Fatalf("cap %g seed %d draw %d: equivalent strain %g exceeds cap", limit, seed, i, eq)
				}
			}
		}
	}
}

func FuzzCap(f *testing.F) {
	f.Add(1.0, -2.0, 3.0, 0.5, -0.25, 0.125, 1e-4)
	f.Fuzz(func(t *testing.T, a, b, c, d, e, g, limit float64) {
		s := elastic.Voigt{a, b, c, d, e, g}
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 1e100 {
				return
			}
		}
		if !(limit > 1e-100) || limit > 1e100 {
			return
		}
		Cap(&s, limit)
		if eq := Equivalent(s); eq > limit {
			t.Errorf("Cap left equivalent strain %g above %g", eq, limit)
		}
	})
}

func TestEquivalent(t *testing.T) {
	testCases := []struct {
		name string
		s    elastic.Voigt
		want float64
	}{
		{"zero", elastic.Voigt{}, 0},
		{"hydrostatic", elastic.Voigt{1, 1, 1, 0, 0, 0}, 0},
		{"uniaxial", elastic.Voigt{1, 0, 0, 0, 0, 0}, math.Sqrt(2.0 / 3.0 * (4.0/9 + 1.0/9 + 1.0/9))},
		{"shear", elastic.Voigt{0, 0, 0, 3, 0, 0}, math.Sqrt(2.0 / 3.0 * 9)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equivalent(tc.s); math.Abs(got-tc.want) > 1e-15 {
				t.Errorf("Equivalent(%v) = %g, want %g", tc.s, got, tc.want)
			}
		})
	}
}

func TestCapKeepsSmallVectors(t *testing.T) {
	s := elastic.Voigt{1e-6, 0, 0, 0, 0, 0}
	before := s
	Cap(&s, 1e-4)
	if s != before {
		t.Errorf("Cap changed a vector below the cap: %v", s)
	}
}

func TestCapScalesUniformly(t *testing.T) {
	s := elastic.Voigt{1, 2, 3, 4, 5, 6}
	Cap(&s, 0.1)
	ratio := s[0] / 1
	for i, v := range s {
		if math.Abs(v/float64(i+1)-ratio) > 1e-15 {
			t.Errorf("component %d scaled by %g, want %g", i, v/float64(i+1), ratio)
		}
	}
	if eq := Equivalent(s); math.Abs(eq-0.1) > 1e-12 {
		t.Errorf("capped equivalent strain %g, want 0.1", eq)
	}
}

func TestGeneratorReproducible(t *testing.T) {
	a, b := newGenerator(t, 1e-4, 7), newGenerator(t, 1e-4, 7)
	for i := 0; i < 10; i++ {
		if a.Draw() != b.Draw() {
			t.Fatal("same seed gave different strains")
		}
	}
}

func newStore(t *testing.T) *Store {
	dir := t.TempDir()
	return &Store{
		StrainsPath:  filepath.Join(dir, "strains"),
		StressesPath: filepath.Join(dir, "stresses"),
		Threads:      4,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := newStore(t)
	ce := elastic.Stiffness(elastic.Parameters{Lambda: 2, Mu: 3})
	if err := s.WriteStrains(newGenerator(t, 1e-4, 2), 25); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteStresses(ce, 25); err != nil {
		t.Fatal(err)
	}
	x, y, err := s.Load(25)
	if err != nil {
		t.Fatal(err)
	}
	g := newGenerator(t, 1e-4, 2)
	for i := 0; i < 25; i++ {
		want := g.Draw()
		for j := 0; j < 6; j++ {
			if x.At(i, j) != want[j] {
				t.Fatalf("strain %d component %d = %g, want %g", i, j, x.At(i, j), want[j])
			}
		}
		stress := Label(ce, want)
		for j := 0; j < 6; j++ {
			if y.At(i, j) != stress[j] {
				t.Fatalf("stress %d component %d = %g, want %g", i, j, y.At(i, j), stress[j])
			}
		}
	}
}

func TestReadRowColumnLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0.txt")
	if err := os.WriteFile(path, []byte("1\n2\n3\n4\n5\n6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	v, err := ReadRow(path)
	if err != nil {
		t.Fatal(err)
	}
	if v != (elastic.Voigt{1, 2, 3, 4, 5, 6}) {
		t.Errorf("ReadRow = %v", v)
	}
}

func TestLoadErrors(t *testing.T) {
	s := newStore(t)
	if _, _, err := s.Load(3); !errs.Is(err, errs.KindIO) {
		t.Errorf("missing files: error = %v, want io error", err)
	}

	if err := os.MkdirAll(s.StrainsPath, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.StrainFile(0), []byte("1 2 3 4 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRow(s.StrainFile(0)); !errs.Is(err, errs.KindIO) {
		t.Errorf("short row: error = %v, want io error", err)
	}
	if err := os.WriteFile(s.StrainFile(0), []byte("1 2 3 4 5 x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRow(s.StrainFile(0)); !errs.Is(err, errs.KindIO) {
		t.Errorf("bad value: error = %v, want io error", err)
	}
}
