// Package parallel contains the bounded ForEach worker pool, its chunked
// variant used for data-parallel gradient and file work, and a hasher that
// accepts item hashes from concurrent workers in any order.
package parallel
