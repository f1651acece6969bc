// Package trainer provides the training loop for the surrogate network:
// full-batch (or mini-batch) Adam on the mean squared error, a per-epoch
// convergence history, and evaluation and resume helpers.
package trainer
