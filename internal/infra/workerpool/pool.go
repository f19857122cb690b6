// Package workerpool bounds how many CPU-heavy tasks run at once.
package workerpool

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Config holds configuration for the pool.
type Config struct {
	Size int
}

// DefaultConfig returns one slot per CPU.
func DefaultConfig() Config {
	return Config{Size: runtime.NumCPU()}
}

// Pool runs tasks on background goroutines, at most Size at a time.
type Pool struct {
	sem  *semaphore.Weighted
	size int
	wg   sync.WaitGroup
}

// New creates a pool. A non-positive size falls back to DefaultConfig.
func New(config Config) *Pool {
	size := config.Size
	if size <= 0 {
		size = DefaultConfig().Size
	}
	slog.Info("Worker pool started", "size", size)
	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

// Size returns the maximum number of concurrent tasks.
func (p *Pool) Size() int {
	return p.size
}

// Run waits for a free slot, executes fn on a pool goroutine and returns its
// error. If ctx is done first, Run returns ctx.Err() without waiting for fn;
// a task that already started still runs to completion and releases its slot.
func (p *Pool) Run(ctx context.Context, fn func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	done := make(chan error, 1)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Worker pool task panicked", "panic", r)
				done <- fmt.Errorf("task panicked: %v", r)
			}
		}()
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown waits for running tasks to finish or for ctx to be done.
func (p *Pool) Shutdown(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		slog.Info("Worker pool drained")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
	}
}
