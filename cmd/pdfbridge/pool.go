package main

import (
	"fmt"
	"runtime"

	"github.com/alnah/go-pdfbridge/internal/config"
)

// cpuDivisor leaves headroom for the Chrome processes each render spawns.
const cpuDivisor = 2

// resolveWorkers picks the number of parallel renders.
// n > 0 is used as-is (capped); 0 means one per two CPUs, at least one,
// and never more than there are files.
func resolveWorkers(n, files int) int {
	if n <= 0 {
		n = runtime.NumCPU() / cpuDivisor
	}
	n = max(1, min(n, config.MaxWorkers))
	if files > 0 {
		n = min(n, files)
	}
	return n
}

// validateWorkers rejects counts outside 0..MaxWorkers.
func validateWorkers(n int) error {
	if n < 0 || n > config.MaxWorkers {
		return fmt.Errorf("%w: --workers must be between 0 and %d, got %d", ErrUsage, config.MaxWorkers, n)
	}
	return nil
}
