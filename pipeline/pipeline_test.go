package pipeline

import "math"
import "os"
import "path/filepath"
import "testing"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/artifact"
import "github.com/neurlang/surrogate/config"
import "github.com/neurlang/surrogate/datasets/strain"
import "github.com/neurlang/surrogate/elastic"
import "github.com/neurlang/surrogate/errs"
import "github.com/neurlang/surrogate/inference"
import "github.com/neurlang/surrogate/trainer"

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Samples.Count = 1000
	cfg.Samples.MaxAbsStrain = 1e-4
	cfg.Samples.StrainsPath = filepath.Join(dir, "strains")
	cfg.Samples.StressesPath = filepath.Join(dir, "stresses")
	cfg.Training.Epochs = 300
	cfg.Training.Slow = false
	cfg.Training.Threads = 2
	cfg.Training.Printer = 0
	cfg.Training.Quiet = true
	cfg.Output = filepath.Join(dir, "out")
	return cfg
}

// rawMSE returns the mean squared error of an engine against the exact law
// on n strains with equivalent strain up to limit.
func rawMSE(t *testing.T, e *inference.Engine, ce mat.Matrix, limit float64, n int) float64 {
	g, err := strain.NewGenerator(limit, 99)
	if err != nil {
		t.Fatal(err)
	}
	x := mat.NewDense(n, elastic.Components, nil)
	y := mat.NewDense(n, elastic.Components, nil)
	for i := 0; i < n; i++ {
		s := g.Draw()
		stress := strain.Label(ce, s)
		x.SetRow(i, s.Slice())
		y.SetRow(i, stress.Slice())
	}
	pred, err := e.Predict(x)
	if err != nil {
		t.Fatal(err)
	}
	return trainer.MeanSquaredError(pred, y)
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	res, err := Run(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Partition.Train) != 700 || len(res.Partition.Validation) != 200 || len(res.Partition.Test) != 100 {
		t.Fatalf("split sizes %d/%d/%d", len(res.Partition.Train), len(res.Partition.Validation), len(res.Partition.Test))
	}
	if res.History.Epochs() != 300 || len(res.History.ValLoss) != 300 {
		t.Fatalf("history of %d epochs", res.History.Epochs())
	}
	if !(res.TestMSE < res.History.Loss[0]) {
		t.Errorf("test loss %g not below the initial loss %g", res.TestMSE, res.History.Loss[0])
	}

	p, _ := cfg.Parameters()
	ce := elastic.Stiffness(p)
	inside := rawMSE(t, res.Engine, ce, cfg.Samples.MaxAbsStrain, 200)
	outside := rawMSE(t, res.Engine, ce, 10*cfg.Samples.MaxAbsStrain, 200)
	if !(inside < outside) {
		t.Errorf("in-distribution error %g not below out-of-distribution error %g", inside, outside)
	}

	if _, err := os.Stat(filepath.Join(cfg.Samples.StrainsPath, "999.txt")); err != nil {
		t.Errorf("strain files: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Samples.StressesPath, "0.txt")); err != nil {
		t.Errorf("stress files: %v", err)
	}
}

func TestRunArtifacts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Samples.Count = 100
	cfg.Training.Epochs = 5
	res, err := Run(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	store := &artifact.Store{Dir: cfg.Output}
	if err := store.Verify(); err != nil {
		t.Fatal(err)
	}
	m, err := store.ReadManifest()
	if err != nil {
		t.Fatal(err)
	}
	if m.Samples == "" || m.Samples != res.Manifest.Samples {
		t.Errorf("manifest sample fingerprint %q", m.Samples)
	}
	if m.RunID != res.Manifest.RunID {
		t.Errorf("manifest run %s, result run %s", m.RunID, res.Manifest.RunID)
	}

	loaded, err := inference.Load(store)
	if err != nil {
		t.Fatal(err)
	}
	xTest, err := store.LoadSet(artifact.XTest)
	if err != nil {
		t.Fatal(err)
	}
	saved, err := store.LoadSet(artifact.YPrediction)
	if err != nil {
		t.Fatal(err)
	}
	got, err := loaded.Predict(xTest)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(got, saved) {
		t.Errorf("reloaded engine does not reproduce the saved predictions")
	}

	xTrain, err := store.LoadSet(artifact.XTraining)
	if err != nil {
		t.Fatal(err)
	}
	if r, _ := xTrain.Dims(); r != 70 {
		t.Errorf("saved %d training rows", r)
	}
	h, err := store.LoadHistory()
	if err != nil {
		t.Fatal(err)
	}
	if h.Epochs() != 5 {
		t.Errorf("saved history of %d epochs", h.Epochs())
	}
}

func TestRunResume(t *testing.T) {
	cfg := testConfig(t)
	cfg.Samples.Count = 200
	cfg.Training.Epochs = 100
	first, err := Run(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Training.Epochs = 1
	cfg.Training.Resume = true
	second, err := Run(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !(second.History.Loss[0] < first.History.Loss[0]) {
		t.Errorf("resumed run starts at loss %g, fresh run at %g", second.History.Loss[0], first.History.Loss[0])
	}
}

func TestRunEmptyTestSet(t *testing.T) {
	cfg := testConfig(t)
	cfg.Samples.Count = 50
	cfg.Training.Epochs = 2
	cfg.Split = []float64{0.8, 0.2, 0}
	res, err := Run(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Partition.Test) != 0 || !math.IsNaN(res.TestMSE) {
		t.Errorf("test set %v, test loss %g", res.Partition.Test, res.TestMSE)
	}
	pred, err := (&artifact.Store{Dir: cfg.Output}).LoadSet(artifact.YPrediction)
	if err != nil || pred != nil {
		t.Errorf("prediction of an empty test set: %v, %v", pred, err)
	}
}

func TestRunRejectsConfig(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"oversized split", func(c *config.Config) { c.Split = []float64{0.9, 0.2, 0} }},
		{"no training rows", func(c *config.Config) { c.Split = []float64{0, 0.5, 0.5} }},
		{"poisson ratio", func(c *config.Config) { c.Material.PoissonRatio = 0.5 }},
		{"epochs", func(c *config.Config) { c.Training.Epochs = 0 }},
		{"infinite fraction", func(c *config.Config) { c.Split = []float64{math.Inf(1), 0, 0} }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Samples.Count = 20
			tc.modify(cfg)
			if _, err := Run(cfg, nil); !errs.Is(err, errs.KindConfiguration) {
				t.Errorf("got %v, want a configuration error", err)
			}
			if _, err := os.Stat(cfg.Samples.StrainsPath); !os.IsNotExist(err) {
				t.Errorf("samples written before the configuration was rejected: %v", err)
			}
		})
	}
}
