package strain

import "log"
import "os"
import "path/filepath"
import "strconv"
import "strings"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/elastic"
import "github.com/neurlang/surrogate/errs"
import "github.com/neurlang/surrogate/parallel"

// Store keeps one text file per sample index and stream:
// {StrainsPath}/{i}.txt and {StressesPath}/{i}.txt, each holding the six
// components of one vector on a single line.
type Store struct {
	StrainsPath  string
	StressesPath string

	Threads int // file workers, 0 uses the physical core count

	l *log.Logger
}

// SetLogger sets where progress is reported.
func (s *Store) SetLogger(l *log.Logger) {
	s.l = l
}

func (s *Store) printf(format string, args ...interface{}) {
	if s.l != nil {
		s.l.Printf(format, args...)
	}
}

// StrainFile returns the strain file path of sample i.
func (s *Store) StrainFile(i int) string {
	return filepath.Join(s.StrainsPath, strconv.Itoa(i)+".txt")
}

// StressFile returns the stress file path of sample i.
func (s *Store) StressFile(i int) string {
	return filepath.Join(s.StressesPath, strconv.Itoa(i)+".txt")
}

// WriteStrains draws n strains from g in index order and writes them.
// The same generator seed and n reproduce the same files.
func (s *Store) WriteStrains(g *Generator, n int) error {
	s.printf("calculating %d strains", n)
	if err := os.MkdirAll(s.StrainsPath, 0o755); err != nil {
		return errs.IO("strain.WriteStrains", s.StrainsPath, err)
	}
	var strains = make([]elastic.Voigt, n)
	for i := range strains {
		strains[i] = g.Draw()
	}
	return s.each(n, func(i int) error {
		return WriteRow(s.StrainFile(i), strains[i])
	})
}

// WriteStresses reads back each strain file, labels it with ce and writes
// the stress file of the same index.
func (s *Store) WriteStresses(ce mat.Matrix, n int) error {
	s.printf("calculating %d stresses", n)
	if err := os.MkdirAll(s.StressesPath, 0o755); err != nil {
		return errs.IO("strain.WriteStresses", s.StressesPath, err)
	}
	return s.each(n, func(i int) error {
		strain, err := ReadRow(s.StrainFile(i))
		if err != nil {
			return err
		}
		return WriteRow(s.StressFile(i), Label(ce, strain))
	})
}

// Load reads samples 0..n-1 into two n x 6 matrices, row i holding sample i.
func (s *Store) Load(n int) (x, y *mat.Dense, err error) {
	if n <= 0 {
		return nil, nil, errs.Configuration("samples.count", "> 0", n)
	}
	s.printf("loading %d samples", n)
	x = mat.NewDense(n, elastic.Components, nil)
	y = mat.NewDense(n, elastic.Components, nil)
	err = s.each(n, func(i int) error {
		strain, err := ReadRow(s.StrainFile(i))
		if err != nil {
			return err
		}
		stress, err := ReadRow(s.StressFile(i))
		if err != nil {
			return err
		}
		x.SetRow(i, strain[:])
		y.SetRow(i, stress[:])
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// each runs body for 0..n-1 on the worker pool and returns the error of the
// lowest failing index.
func (s *Store) each(n int, body func(i int) error) error {
	var failures = make([]error, n)
	parallel.ForEach(n, s.Threads, func(i int) {
		failures[i] = body(i)
	})
	for _, err := range failures {
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteRow writes v as one line of six space separated values.
func WriteRow(path string, v elastic.Voigt) error {
	var b strings.Builder
	for i, x := range v {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(x, 'e', 18, 64))
	}
	b.WriteByte('\n')
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errs.IO("strain.WriteRow", path, err)
	}
	return nil
}

// ReadRow parses a file of exactly six whitespace separated values. Line
// breaks count as whitespace, so column vectors are accepted as well.
func ReadRow(path string) (v elastic.Voigt, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return v, errs.IO("strain.ReadRow", path, err)
	}
	fields := strings.Fields(string(data))
	if len(fields) != elastic.Components {
		return v, errs.Corrupt("strain.ReadRow", path, "expected %d values, got %d", elastic.Components, len(fields))
	}
	for i, f := range fields {
		v[i], err = strconv.ParseFloat(f, 64)
		if err != nil {
			return v, errs.Corrupt("strain.ReadRow", path, "value %d: %v", i, err)
		}
	}
	return v, nil
}
