// Package pipeline runs the whole surrogate workflow: sample generation,
// labelling, partitioning, normalization, training and artifact export.
package pipeline

import "log"
import "math"
import "math/rand"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/artifact"
import "github.com/neurlang/surrogate/config"
import "github.com/neurlang/surrogate/datasets"
import "github.com/neurlang/surrogate/datasets/strain"
import "github.com/neurlang/surrogate/elastic"
import "github.com/neurlang/surrogate/errs"
import "github.com/neurlang/surrogate/inference"
import "github.com/neurlang/surrogate/learning"
import "github.com/neurlang/surrogate/net/feedforward"
import "github.com/neurlang/surrogate/scaler"
import "github.com/neurlang/surrogate/trainer"

// Result summarizes a finished run.
type Result struct {
	Partition datasets.Partition
	History   trainer.History
	TestMSE   float64 // normalized test loss, NaN when the test set is empty
	Engine    *inference.Engine
	Manifest  *artifact.Manifest
}

// Run executes the workflow described by cfg. Progress is written to logger,
// which may be nil.
func Run(cfg *config.Config, logger *log.Logger) (*Result, error) {
	printf := func(format string, args ...interface{}) {
		if logger != nil {
			logger.Printf(format, args...)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := cfg.Parameters()
	if err != nil {
		return nil, err
	}
	ce := elastic.Stiffness(p)
	printf("lambda %.6e mu %.6e", p.Lambda, p.Mu)

	n := cfg.Samples.Count
	samples := &strain.Store{
		StrainsPath:  cfg.Samples.StrainsPath,
		StressesPath: cfg.Samples.StressesPath,
		Threads:      cfg.Training.Threads,
	}
	samples.SetLogger(logger)
	g, err := strain.NewGenerator(cfg.Samples.MaxAbsStrain, cfg.Seed)
	if err != nil {
		return nil, err
	}
	if err := samples.WriteStrains(g, n); err != nil {
		return nil, err
	}
	if err := samples.WriteStresses(ce, n); err != nil {
		return nil, err
	}
	x, y, err := samples.Load(n)
	if err != nil {
		return nil, err
	}
	fingerprint := datasets.Fingerprint(x, y, cfg.Training.Threads)
	printf("sample fingerprint %s", fingerprint)

	part, err := datasets.Split(n, cfg.Fractions(), rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return nil, err
	}
	train, validation, test := part.Sets(x, y)
	printf("split %d training, %d validation, %d test samples", train.Len(), validation.Len(), test.Len())
	if train.Len() == 0 {
		return nil, errs.Configuration("split", "at least one training sample", train.Len())
	}

	xs := new(scaler.MinMax).Fit(train.X)
	ys := new(scaler.MinMax).Fit(train.Y)
	trainX, trainY, err := normalize(xs, ys, train)
	if err != nil {
		return nil, err
	}
	valX, valY, err := normalize(xs, ys, validation)
	if err != nil {
		return nil, err
	}

	out := &artifact.Store{Dir: cfg.Output}
	net := feedforward.NewSurrogate(rand.New(rand.NewSource(cfg.Seed)))
	weights := out.WeightsPath()
	if err := trainer.Resume(net, &cfg.Training.Resume, &weights); err != nil {
		return nil, err
	}

	h := learning.Profile(cfg.Training.Slow)
	h.Threads = cfg.Training.Threads
	h.Seed = cfg.Seed
	h.BatchSize = cfg.Training.BatchSize
	h.Printer = cfg.Training.Printer
	h.DisableProgressBar = cfg.Training.Quiet
	h.SetLog(logger)
	hist, err := trainer.Fit(net, &h, trainX, trainY, valX, valY, cfg.Training.Epochs)
	if err != nil {
		return nil, err
	}

	engine, err := inference.New(xs, ys, net)
	if err != nil {
		return nil, err
	}
	res := &Result{Partition: part, History: hist, TestMSE: math.NaN(), Engine: engine}

	var prediction *mat.Dense
	if test.Len() > 0 {
		testX, testY, err := normalize(xs, ys, test)
		if err != nil {
			return nil, err
		}
		if res.TestMSE, err = trainer.Evaluate(net, testX, testY); err != nil {
			return nil, err
		}
		if prediction, err = engine.Predict(test.X); err != nil {
			return nil, err
		}
		printf("test loss %.6e", res.TestMSE)
	}

	if err := export(out, train, validation, test, prediction, xs, ys, net, hist); err != nil {
		return nil, err
	}
	if res.Manifest, err = out.Seal(cfg, fingerprint); err != nil {
		return nil, err
	}
	printf("artifacts written to %s, run %s", out.Dir, res.Manifest.RunID)
	return res, nil
}

// normalize returns the scaled copies of a set, nil for an empty set.
func normalize(xs, ys *scaler.MinMax, s datasets.Set) (x, y *mat.Dense, err error) {
	if s.Len() == 0 {
		return nil, nil, nil
	}
	if x, err = xs.Transform(s.X); err != nil {
		return nil, nil, err
	}
	if y, err = ys.Transform(s.Y); err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func export(out *artifact.Store, train, validation, test datasets.Set, prediction *mat.Dense,
	xs, ys *scaler.MinMax, net *feedforward.Network, hist trainer.History) error {
	sets := []struct {
		name string
		m    *mat.Dense
	}{
		{artifact.XTraining, train.X},
		{artifact.YTraining, train.Y},
		{artifact.XValidation, validation.X},
		{artifact.YValidation, validation.Y},
		{artifact.XTest, test.X},
		{artifact.YTest, test.Y},
		{artifact.YPrediction, prediction},
	}
	for _, s := range sets {
		if err := out.SaveSet(s.name, s.m); err != nil {
			return err
		}
	}
	if err := out.SaveScaler(artifact.XScaler, xs); err != nil {
		return err
	}
	if err := out.SaveScaler(artifact.YScaler, ys); err != nil {
		return err
	}
	if err := out.SaveWeights(net); err != nil {
		return err
	}
	return out.SaveHistory(hist)
}
