//go:build bench

package stageload

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

// BenchmarkResolveConcurrency benchmarks fetch concurrency calculation.
func BenchmarkResolveConcurrency(b *testing.B) {
	values := []int{0, 1, 4, 32}

	for _, n := range values {
		b.Run(concurrencyName(n), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = ResolveConcurrency(n)
			}
		})
	}
}

func concurrencyName(n int) string {
	if n == 0 {
		return "auto"
	}
	return fmt.Sprintf("%d", n)
}

// BenchmarkFetchPoolAcquireRelease benchmarks an uncontended slot cycle.
func BenchmarkFetchPoolAcquireRelease(b *testing.B) {
	sizes := []int{1, 4, 16}
	ctx := context.Background()

	for _, size := range sizes {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			pool := newFetchPool(size)

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if err := pool.acquire(ctx); err != nil {
					b.Fatal(err)
				}
				pool.release()
			}
		})
	}
}

// BenchmarkFetchPoolContention benchmarks goroutines competing for slots.
func BenchmarkFetchPoolContention(b *testing.B) {
	const poolSize = 4
	goroutines := []int{4, 16, 64}
	ctx := context.Background()

	for _, g := range goroutines {
		b.Run(fmt.Sprintf("goroutines_%d", g), func(b *testing.B) {
			pool := newFetchPool(poolSize)

			b.ReportAllocs()
			b.ResetTimer()

			var wg sync.WaitGroup
			per := b.N/g + 1
			for j := 0; j < g; j++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for k := 0; k < per; k++ {
						if err := pool.acquire(ctx); err != nil {
							return
						}
						pool.release()
					}
				}()
			}
			wg.Wait()
		})
	}
}

// BenchmarkPipelineRun benchmarks a one-step pipeline over an in-memory fetcher.
func BenchmarkPipelineRun(b *testing.B) {
	counts := []int{1, 16, 128}

	for _, n := range counts {
		reqs := make([]Request, n)
		for i := range reqs {
			reqs[i] = Request{URL: fmt.Sprintf("text/%d.txt", i), Kind: KindText}
		}

		b.Run(fmt.Sprintf("assets_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				p := NewPipeline(newCountingFetcher())
				p.AddStep("load", LoadStep(reqs...))
				if err := p.Run(context.Background()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
