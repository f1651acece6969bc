// Package learning holds the optimizer configuration and the Adam update
// used to train the surrogate network.
package learning

import "log"
import "os"

import "github.com/neurlang/surrogate/errs"

// SetLogger sets the output logger file where training progress is written
func (h *HyperParameters) SetLogger(filename string) error {
	outfile, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return errs.IO("learning.SetLogger", filename, err)
	}
	h.l = log.New(outfile, "", log.LstdFlags)
	return nil
}

// SetLog sets the logger training progress is written to. Nil silences it.
func (h *HyperParameters) SetLog(l *log.Logger) {
	h.l = l
}

// Logf writes a progress line when a logger is set.
func (h *HyperParameters) Logf(format string, args ...interface{}) {
	if h.l != nil {
		h.l.Printf(format, args...)
	}
}

// HyperParameters configures the Adam optimizer and the training loop.
type HyperParameters struct {
	Threads int   // number of threads for gradient accumulation, 0 = physical cores
	Seed    int64 // seeds weight initialization and batch shuffling

	LearningRate float64
	Beta1        float64 // first moment decay
	Beta2        float64 // second moment decay
	Epsilon      float64 // added to the second moment root
	AMSGrad      bool    // use the running maximum of the second moment

	BatchSize int // rows per update, 0 = the full training set
	Printer   int // log every this many epochs, 0 = never

	DisableProgressBar bool

	l *log.Logger
}

// Fast is the default Adam profile: learning rate 0.01, standard decays.
func Fast() HyperParameters {
	return HyperParameters{
		LearningRate: 0.01,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-7,
		Printer:      10,
	}
}

// Slow is the robust profile: heavier moment averaging and amsgrad, which
// lowers the effective step size.
func Slow() HyperParameters {
	return HyperParameters{
		LearningRate: 0.01,
		Beta1:        0.99,
		Beta2:        0.999999,
		Epsilon:      1e-8,
		AMSGrad:      true,
		Printer:      10,
	}
}

// Profile selects Slow when slow is set, Fast otherwise.
func Profile(slow bool) HyperParameters {
	if slow {
		return Slow()
	}
	return Fast()
}

// Validate checks the optimizer settings.
func (h *HyperParameters) Validate() error {
	if !(h.LearningRate > 0) {
		return errs.Configuration("learning_rate", "> 0", h.LearningRate)
	}
	if !(h.Beta1 >= 0 && h.Beta1 < 1) {
		return errs.Configuration("beta_1", "in [0, 1)", h.Beta1)
	}
	if !(h.Beta2 >= 0 && h.Beta2 < 1) {
		return errs.Configuration("beta_2", "in [0, 1)", h.Beta2)
	}
	if !(h.Epsilon > 0) {
		return errs.Configuration("epsilon", "> 0", h.Epsilon)
	}
	if h.BatchSize < 0 {
		return errs.Configuration("batch_size", ">= 0", h.BatchSize)
	}
	return nil
}
