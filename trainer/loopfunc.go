package trainer

import "math/rand"

import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/surrogate/errs"
import "github.com/neurlang/surrogate/learning"
import "github.com/neurlang/surrogate/net/feedforward"
import "github.com/neurlang/surrogate/parallel"

// History is the convergence history of a training run, one entry per epoch.
type History struct {
	Loss    []float64 `json:"loss"`               // mean of the batch losses seen during the epoch
	ValLoss []float64 `json:"val_loss,omitempty"` // validation loss after the epoch's updates
}

// Epochs returns the number of recorded epochs.
func (h History) Epochs() int {
	return len(h.Loss)
}

// Fit trains net in place with Adam on the mean squared error between
// net(trainX) and trainY for the given number of epochs and returns the
// per-epoch losses. valX and valY may be nil. With h.BatchSize 0 every epoch
// is a single full-batch update; otherwise the rows are shuffled each epoch
// and split into batches of h.BatchSize. The weights after the last epoch are
// kept; there is no early stopping.
func Fit(net *feedforward.Network, h *learning.HyperParameters, trainX, trainY, valX, valY *mat.Dense, epochs int) (hist History, err error) {
	if err := check(net, h, trainX, trainY, valX, valY, epochs); err != nil {
		return hist, err
	}
	for n := range net.Layers {
		l := &net.Layers[n]
		if raw := l.W.RawMatrix(); raw.Stride != raw.Cols {
			l.W = mat.DenseCopyOf(l.W)
		}
	}

	threads := h.Threads
	if threads <= 0 {
		threads = parallel.DefaultThreads()
	}
	rows, _ := trainX.Dims()
	batch := h.BatchSize
	if batch <= 0 || batch > rows {
		batch = rows
	}
	h.Logf("training on %d rows, batch %d, %d threads, cpu %s", rows, batch, threads, parallel.Describe())

	var sizes []int
	for _, p := range parameters(net) {
		sizes = append(sizes, len(p))
	}
	opt := learning.NewAdam(h, sizes...)
	rng := rand.New(rand.NewSource(h.Seed))

	var partial = make([]*gradient, threads)
	for i := range partial {
		partial[i] = newGradient(net)
	}
	total := newGradient(net)

	var validate func() float64
	if valX != nil {
		validate = NewEvaluateFunc(net, valX, valY)
	}

	var order []int
	if batch < rows {
		order = make([]int, rows)
		for i := range order {
			order[i] = i
		}
	}

	for epoch := 0; epoch < epochs; epoch++ {
		if order != nil {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}
		var epochLoss float64
		var batches int
		for begin := 0; begin < rows; begin += batch {
			end := begin + batch
			if end > rows {
				end = rows
			}
			x, y := trainX, trainY
			if order != nil {
				x, y = gatherRows(trainX, order[begin:end]), gatherRows(trainY, order[begin:end])
			}
			epochLoss += step(net, opt, x, y, threads, partial, total)
			batches++
		}
		hist.Loss = append(hist.Loss, epochLoss/float64(batches))
		h.Progress(epoch+1, epochs, hist.Loss[epoch])
		if validate != nil {
			hist.ValLoss = append(hist.ValLoss, validate())
		}

		if h.Printer > 0 && ((epoch+1)%h.Printer == 0 || epoch+1 == epochs) {
			if validate != nil {
				h.Logf("epoch %d/%d loss %.6e val_loss %.6e", epoch+1, epochs, hist.Loss[epoch], hist.ValLoss[epoch])
			} else {
				h.Logf("epoch %d/%d loss %.6e", epoch+1, epochs, hist.Loss[epoch])
			}
		}
	}
	return hist, nil
}

// step applies one Adam update computed on all rows of x, y and returns the
// batch loss before the update. The gradient is accumulated per chunk and
// the chunks are summed in ascending order, so the result does not depend
// on goroutine scheduling.
func step(net *feedforward.Network, opt *learning.Adam, x, y *mat.Dense, threads int, partial []*gradient, total *gradient) float64 {
	rows, outputs := y.Dims()
	scale := 2 / float64(rows*outputs)
	n := parallel.ForEachChunk(rows, threads, func(i int, c parallel.Chunk) {
		partial[i].reset()
		accumulate(net, x, y, c, scale, partial[i])
	})
	total.reset()
	for i := 0; i < n; i++ {
		total.add(partial[i])
	}
	opt.Step(parameters(net), total.tensors)
	return total.sse / float64(rows*outputs)
}

func gatherRows(m *mat.Dense, indices []int) *mat.Dense {
	_, c := m.Dims()
	out := mat.NewDense(len(indices), c, nil)
	for r, i := range indices {
		out.SetRow(r, m.RawRowView(i))
	}
	return out
}

func check(net *feedforward.Network, h *learning.HyperParameters, trainX, trainY, valX, valY *mat.Dense, epochs int) error {
	if epochs <= 0 {
		return errs.Configuration("training.epochs", "> 0", epochs)
	}
	if err := h.Validate(); err != nil {
		return err
	}
	if err := net.Check(); err != nil {
		return err
	}
	if trainX == nil || trainY == nil {
		return errs.Shape("trainer.Fit", "training rows", 1, 0)
	}
	if err := checkSet("training", net, trainX, trainY); err != nil {
		return err
	}
	if (valX == nil) != (valY == nil) {
		return errs.Shape("trainer.Fit", "validation matrices", 2, 1)
	}
	if valX != nil {
		return checkSet("validation", net, valX, valY)
	}
	return nil
}

func checkSet(name string, net *feedforward.Network, x, y *mat.Dense) error {
	xr, xc := x.Dims()
	yr, yc := y.Dims()
	if xc != net.Inputs() {
		return errs.Shape("trainer.Fit", name+" input columns", net.Inputs(), xc)
	}
	if yc != net.Outputs() {
		return errs.Shape("trainer.Fit", name+" output columns", net.Outputs(), yc)
	}
	if xr != yr {
		return errs.Shape("trainer.Fit", name+" output rows", xr, yr)
	}
	return nil
}
