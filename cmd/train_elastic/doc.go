// Package main provides the training program for the linear elastic
// surrogate. It generates capped random strains, labels them with Hooke's
// law, trains the 6-20-6 network on CPU and writes the datasets, scalers,
// weights and a manifest to the output directory.
package main
