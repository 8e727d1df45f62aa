package stageload

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Fetch concurrency constants.
const (
	// MinConcurrency ensures at least one fetch can be in flight.
	MinConcurrency = 1

	// MaxConcurrency caps automatic sizing. Explicit values may exceed it.
	MaxConcurrency = 16

	// fetchesPerCPU reflects that fetches mostly wait on the network.
	fetchesPerCPU = 4
)

// ResolveConcurrency determines how many fetches may run at once.
// Priority: explicit value > GOMAXPROCS-based calculation.
// GOMAXPROCS is expected to be container-aware (automaxprocs in the CLI).
func ResolveConcurrency(n int) int {
	if n > 0 {
		return n
	}

	c := runtime.GOMAXPROCS(0) * fetchesPerCPU
	if c < MinConcurrency {
		return MinConcurrency
	}
	if c > MaxConcurrency {
		return MaxConcurrency
	}
	return c
}

// fetchPool bounds the number of fetches in flight.
type fetchPool struct {
	size int
	sem  *semaphore.Weighted
}

func newFetchPool(n int) *fetchPool {
	n = ResolveConcurrency(n)
	return &fetchPool{
		size: n,
		sem:  semaphore.NewWeighted(int64(n)),
	}
}

// acquire blocks until a slot is free or ctx is done.
func (p *fetchPool) acquire(ctx context.Context) error {
	return p.sem.Acquire(ctx, 1)
}

func (p *fetchPool) release() {
	p.sem.Release(1)
}
