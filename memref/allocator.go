package memref

import (
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/kestrelml/stridebuf/util"
)

// Allocator supplies the element buffers owned by descriptors. Alloc must
// return a slice of exactly n elements or ErrAllocationFailure; Free takes
// back a buffer previously handed out by the same allocator.
type Allocator[T Element] interface {
	Alloc(n int64) ([]T, error)
	Free(buf []T)
}

// HeapAllocator allocates straight from the Go heap. Freed buffers are left
// for the garbage collector.
type HeapAllocator[T Element] struct{}

func (HeapAllocator[T]) Alloc(n int64) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative element count %d", ErrAllocationFailure, n)
	}
	var zero T
	elemSize := int64(unsafe.Sizeof(zero))
	if elemSize > 0 && n > math.MaxInt64/elemSize {
		return nil, fmt.Errorf("%w: %d elements overflow addressable memory", ErrAllocationFailure, n)
	}
	return make([]T, n), nil
}

func (HeapAllocator[T]) Free(buf []T) {}

// PoolAllocator recycles element buffers through a util.SlicePool. Useful
// when descriptors of the same shape are created and released in a tight
// loop, e.g. per-frame ingestion.
type PoolAllocator[T Element] struct {
	pool *util.SlicePool[T]
}

func NewPoolAllocator[T Element]() *PoolAllocator[T] {
	return &PoolAllocator[T]{pool: util.NewSlicePool[T]()}
}

func (p *PoolAllocator[T]) Alloc(n int64) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative element count %d", ErrAllocationFailure, n)
	}
	if n > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d elements exceeds pool limit", ErrAllocationFailure, n)
	}
	return p.pool.Get(int(n)), nil
}

func (p *PoolAllocator[T]) Free(buf []T) {
	p.pool.Put(buf)
}

// Metrics returns the hit/miss counts of the underlying pool.
func (p *PoolAllocator[T]) Metrics() (hits, misses int64) {
	return p.pool.Metrics()
}

// TrackingAllocator wraps another allocator and counts live buffers. The
// lifecycle tests use it to prove every allocation is released exactly once.
type TrackingAllocator[T Element] struct {
	inner  Allocator[T]
	allocs atomic.Int64
	frees  atomic.Int64
}

func NewTrackingAllocator[T Element](inner Allocator[T]) *TrackingAllocator[T] {
	if inner == nil {
		inner = HeapAllocator[T]{}
	}
	return &TrackingAllocator[T]{inner: inner}
}

func (t *TrackingAllocator[T]) Alloc(n int64) ([]T, error) {
	buf, err := t.inner.Alloc(n)
	if err != nil {
		return nil, err
	}
	t.allocs.Add(1)
	return buf, nil
}

func (t *TrackingAllocator[T]) Free(buf []T) {
	t.frees.Add(1)
	t.inner.Free(buf)
}

func (t *TrackingAllocator[T]) Live() int64 {
	return t.allocs.Load() - t.frees.Load()
}

func (t *TrackingAllocator[T]) Counts() (allocs, frees int64) {
	return t.allocs.Load(), t.frees.Load()
}
