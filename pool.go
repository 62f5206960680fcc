package ogimage

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps rasterizer instances; each chrome rasterizer owns a browser (~200MB).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for browser child processes.
	cpuDivisor = 2
)

// RasterizerFactory creates a new Rasterizer for a pool slot.
type RasterizerFactory func() (Rasterizer, error)

// RasterizerPool hands out Rasterizer instances to concurrent image jobs.
// Each instance is used by one goroutine at a time.
// Instances are created lazily on first acquire to avoid startup delay.
type RasterizerPool struct {
	size        int
	factory     RasterizerFactory
	rasterizers []Rasterizer
	sem         chan Rasterizer
	mu          sync.Mutex
	created     int
	closed      bool
}

// NewRasterizerPool creates a pool with capacity for n rasterizers built by factory.
// A nil factory builds CanvasRasterizer instances.
func NewRasterizerPool(n int, factory RasterizerFactory) *RasterizerPool {
	if n < 1 {
		n = 1
	}
	if factory == nil {
		factory = func() (Rasterizer, error) { return NewCanvasRasterizer(), nil }
	}

	return &RasterizerPool{
		size:        n,
		factory:     factory,
		rasterizers: make([]Rasterizer, 0, n),
		sem:         make(chan Rasterizer, n),
	}
}

// Acquire gets a rasterizer from the pool, creating one if needed.
// Blocks if all rasterizers are in use.
func (p *RasterizerPool) Acquire() (Rasterizer, error) {
	select {
	case r := <-p.sem:
		return r, nil
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create outside the lock; a browser launch can be slow.
		r, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.rasterizers = append(p.rasterizers, r)
		p.mu.Unlock()

		return r, nil
	}
	p.mu.Unlock()

	// All rasterizers created, wait for one to be released
	return <-p.sem, nil
}

// Release returns a rasterizer to the pool.
// The lock is released before sending to avoid deadlock when channel is full.
func (p *RasterizerPool) Release(r Rasterizer) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sem <- r
}

// Close releases all rasterizer resources.
// Returns an aggregated error if multiple rasterizers fail to close.
func (p *RasterizerPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	rasterizers := p.rasterizers
	p.mu.Unlock()

	var errs []error
	for _, r := range rasterizers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *RasterizerPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
