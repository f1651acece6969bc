// Package main provides a demo program for running a trained elastic
// surrogate. It reads strain rows (six components per line) from files or
// standard input and prints the predicted stresses, optionally next to the
// exact Hooke's law stresses.
package main
