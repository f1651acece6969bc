// Package strain provides the synthetic strain dataset: bounded random strain
// vectors, their elastic stress labels, and the one-file-per-sample text
// storage both are kept in.
package strain
