package parallel

import "runtime"

import "github.com/klauspost/cpuid/v2"

// DefaultThreads reports the number of worker goroutines to use when the
// caller does not configure one: the physical core count, falling back to
// GOMAXPROCS when cpuid cannot tell.
func DefaultThreads() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	}
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// Describe returns a one line CPU summary for training logs.
func Describe() string {
	return cpuid.CPU.BrandName + " (" + cpuid.CPU.VendorString + "), avx2=" +
		boolString(cpuid.CPU.Supports(cpuid.AVX2)) + " avx512=" +
		boolString(cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ))
}

func boolString(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
