package util

import (
	"sync"
	"sync/atomic"
)

// SlicePool recycles flat element buffers, one sync.Pool per buffer length.
// Descriptor workloads tend to churn through a handful of fixed shapes, so
// keying by exact length keeps the fast path a single map lookup.
type SlicePool[T any] struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex

	hits   atomic.Int64
	misses atomic.Int64
}

func NewSlicePool[T any]() *SlicePool[T] {
	return &SlicePool[T]{pools: make(map[int]*sync.Pool)}
}

// Get returns a zeroed slice of exactly n elements, reusing a pooled buffer
// when one of that length is available.
func (p *SlicePool[T]) Get(n int) []T {
	if n <= 0 {
		return nil
	}

	p.mu.RLock()
	pool, exists := p.pools[n]
	p.mu.RUnlock()

	if exists {
		if buf := pool.Get(); buf != nil {
			p.hits.Add(1)
			return buf.([]T)
		}
	} else {
		p.mu.Lock()
		// Double-check after acquiring write lock
		if _, exists = p.pools[n]; !exists {
			p.pools[n] = &sync.Pool{}
		}
		p.mu.Unlock()
	}

	p.misses.Add(1)
	return make([]T, n)
}

// Put clears the buffer and returns it to the pool for its length. Buffers
// from other sources are accepted as long as the length matches a future Get.
func (p *SlicePool[T]) Put(buf []T) {
	n := len(buf)
	if n == 0 {
		return
	}

	p.mu.RLock()
	pool, exists := p.pools[n]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[n]
		if !exists {
			pool = &sync.Pool{}
			p.pools[n] = pool
		}
		p.mu.Unlock()
	}

	var zero T
	for i := range buf {
		buf[i] = zero
	}
	pool.Put(buf)
}

// Metrics returns pool usage statistics.
func (p *SlicePool[T]) Metrics() (hits, misses int64) {
	return p.hits.Load(), p.misses.Load()
}
