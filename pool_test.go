package ogimage

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire() (Rasterizer, error)
	Release(Rasterizer)
	Size() int
	Close() error
} = (*RasterizerPool)(nil)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
		{
			name:    "explicit can exceed max",
			workers: 16,
			want:    16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolvePoolSize(tt.workers)
			if got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func countingFactory(n *atomic.Int32) RasterizerFactory {
	return func() (Rasterizer, error) {
		n.Add(1)
		return &fakeRasterizer{}, nil
	}
}

// ---------------------------------------------------------------------------
// TestRasterizerPool - Lazy creation, reuse, blocking
// ---------------------------------------------------------------------------

func TestRasterizerPool_LazyAndReuse(t *testing.T) {
	t.Parallel()

	var created atomic.Int32
	pool := NewRasterizerPool(2, countingFactory(&created))
	defer pool.Close()

	if created.Load() != 0 {
		t.Fatal("rasterizers created before first Acquire")
	}

	r1, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	pool.Release(r1)

	r2, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	if r2 != r1 {
		t.Error("released rasterizer was not reused")
	}
	pool.Release(r2)

	if got := created.Load(); got != 1 {
		t.Errorf("created %d rasterizers, want 1", got)
	}
}

func TestRasterizerPool_SizeFloor(t *testing.T) {
	t.Parallel()

	pool := NewRasterizerPool(0, nil)
	defer pool.Close()

	if pool.Size() != 1 {
		t.Errorf("Size() = %d, want 1", pool.Size())
	}

	r, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	if _, ok := r.(*CanvasRasterizer); !ok {
		t.Errorf("default factory built %T, want *CanvasRasterizer", r)
	}
	pool.Release(r)
}

func TestRasterizerPool_BlocksWhenExhausted(t *testing.T) {
	t.Parallel()

	var created atomic.Int32
	pool := NewRasterizerPool(1, countingFactory(&created))
	defer pool.Close()

	r, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}

	got := make(chan Rasterizer)
	go func() {
		r2, _ := pool.Acquire()
		got <- r2
	}()

	select {
	case <-got:
		t.Fatal("Acquire() returned while pool was exhausted")
	case <-time.After(50 * time.Millisecond):
	}

	pool.Release(r)

	select {
	case r2 := <-got:
		if r2 != r {
			t.Error("waiter did not receive the released rasterizer")
		}
		pool.Release(r2)
	case <-time.After(time.Second):
		t.Fatal("waiter not woken by Release()")
	}

	if created.Load() != 1 {
		t.Errorf("created %d rasterizers, want 1", created.Load())
	}
}

func TestRasterizerPool_FactoryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	pool := NewRasterizerPool(1, func() (Rasterizer, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return &fakeRasterizer{}, nil
	})
	defer pool.Close()

	if _, err := pool.Acquire(); !errors.Is(err, boom) {
		t.Fatalf("Acquire() error = %v, want boom", err)
	}

	// The failed slot is given back, so the next Acquire can create.
	r, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() after failure error: %v", err)
	}
	pool.Release(r)
}

func TestRasterizerPool_Concurrent(t *testing.T) {
	t.Parallel()

	var created atomic.Int32
	pool := NewRasterizerPool(3, countingFactory(&created))
	defer pool.Close()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := pool.Acquire()
			if err != nil {
				t.Errorf("Acquire() error: %v", err)
				return
			}
			time.Sleep(time.Millisecond)
			pool.Release(r)
		}()
	}
	wg.Wait()

	if got := created.Load(); got > 3 {
		t.Errorf("created %d rasterizers, want at most 3", got)
	}
}

func TestRasterizerPool_Close(t *testing.T) {
	t.Parallel()

	var fakes []*fakeRasterizer
	pool := NewRasterizerPool(2, func() (Rasterizer, error) {
		f := &fakeRasterizer{}
		fakes = append(fakes, f)
		return f, nil
	})

	r1, _ := pool.Acquire()
	r2, _ := pool.Acquire()
	pool.Release(r1)

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}

	// Release after Close is a no-op.
	pool.Release(r2)

	for i, f := range fakes {
		if !f.closed.Load() {
			t.Errorf("rasterizer %d not closed", i)
		}
	}
}
