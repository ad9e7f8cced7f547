package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"sensiscan/pkg/core"
)

type job struct {
	Provider core.Provider
	Target   string
}

// Runner fans probe targets out over a fixed pool of workers
type Runner struct {
	providers []core.Provider
	config    *core.Config
	results   chan *core.Result

	// OnCheck, when set, is called after every completed probe.
	OnCheck func()

	dispatched atomic.Int64
}

func NewRunner(config *core.Config, providers []core.Provider) *Runner {
	return &Runner{
		providers: providers,
		config:    config,
		results:   make(chan *core.Result),
	}
}

// Dispatched returns how many probes have been handed to workers.
func (r *Runner) Dispatched() int64 {
	return r.dispatched.Load()
}

// Start generates every target for hosts and streams positive results.
// The returned channel is closed once every probe has finished.
func (r *Runner) Start(ctx context.Context, hosts []string) <-chan *core.Result {
	jobs := make(chan job, r.config.Threads*4)

	// 1. Generator
	go func() {
		defer close(jobs)
		for _, host := range hosts {
			for _, p := range r.providers {
				pChan := make(chan string)
				go func(prov core.Provider) {
					defer close(pChan)
					prov.Generate(ctx, host, pChan)
				}(p)

				for target := range pChan {
					select {
					case <-ctx.Done():
						// drain so the generator goroutine can exit
						for range pChan {
						}
						return
					case jobs <- job{Provider: p, Target: target}:
						r.dispatched.Add(1)
					}
				}
			}
		}
	}()

	// 2. Worker Pool
	threads := r.config.Threads
	if threads < 1 {
		threads = 1
	}
	var wgWorkers sync.WaitGroup
	for i := 0; i < threads; i++ {
		wgWorkers.Add(1)
		go func() {
			defer wgWorkers.Done()
			for j := range jobs {
				res, err := j.Provider.Check(ctx, j.Target)
				if r.OnCheck != nil {
					r.OnCheck()
				}
				if err == nil && res != nil {
					r.results <- res
				}
			}
		}()
	}

	// Close results when all workers are done
	go func() {
		wgWorkers.Wait()
		close(r.results)
	}()

	return r.results
}
