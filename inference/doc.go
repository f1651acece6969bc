// Package inference evaluates a trained surrogate on raw strains, the way a
// host solver calls it at every material point: normalize, run the network,
// denormalize. An Engine is read-only after construction and may be shared
// between goroutines.
package inference
