// Package workerpool runs submitted tasks on a fixed number of goroutines.
package workerpool

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

type Task func(ctx context.Context) error

type Result struct {
	Key string
	Err error
}

type job struct {
	key  string
	task Task
}

// Pool bounds concurrency to a fixed worker count. Call Run before Submit,
// Close after the last Submit, and drain the channel Run returned.
type Pool struct {
	workers int
	tasks   chan job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	limiter *rate.Limiter
	closed  bool
}

func New(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan job, buffer),
	}
}

// SetRateLimit caps task starts per second across all workers. rps <= 0
// removes the cap.
func (p *Pool) SetRateLimit(rps float64) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if rps <= 0 {
		p.limiter = nil
		return
	}
	p.limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

func (p *Pool) Submit(key string, t Task) {
	if p == nil || t == nil {
		return
	}
	p.tasks <- job{key: key, task: t}
}

func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.tasks)
}

// Run starts the workers. Tasks still queued when ctx ends are reported with
// ctx's error instead of being run. A panicking task is reported as an error.
func (p *Pool) Run(ctx context.Context) <-chan Result {
	out := make(chan Result, p.workers)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for j := range p.tasks {
				out <- Result{Key: j.key, Err: p.execute(ctx, j)}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}

func (p *Pool) execute(ctx context.Context, j job) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.RLock()
	limiter := p.limiter
	p.mu.RUnlock()
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", j.key, r)
		}
	}()
	return j.task(ctx)
}
