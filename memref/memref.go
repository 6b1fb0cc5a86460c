package memref

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Element constrains the element types a descriptor can carry.
type Element interface {
	constraints.Integer | constraints.Float
}

// MemRef describes an n-dimensional dense array: extents, row major strides,
// total element count and the buffer holding the elements. A descriptor
// either owns its buffer (allocated through its Allocator, released exactly
// once) or is a view over caller memory it must never release. The rank is
// fixed when the descriptor is built and every later operation checks
// against it.
//
// Instances are plain values with no internal locking. Concurrent use of one
// instance has to be serialized by the caller; independent instances never
// share mutable state because copies are always deep.
type MemRef[T Element] struct {
	sizes   Shape
	strides []int64
	size    int64

	// data is the owned buffer, nil for views and moved-from descriptors.
	// view is the slice elements are read and written through; it aliases
	// data for owning descriptors and caller memory for views.
	data []T
	view []T

	alloc Allocator[T]
}

// Option configures construction.
type Option[T Element] func(*MemRef[T])

// WithAllocator installs the allocator used for the descriptor's owned
// buffers. Defaults to HeapAllocator.
func WithAllocator[T Element](a Allocator[T]) Option[T] {
	return func(m *MemRef[T]) {
		m.alloc = a
	}
}

// New builds an owning descriptor for the given shape. Strides are row
// major, the total size is the product of the extents and a buffer of that
// many elements is allocated. Element values are zero.
func New[T Element](shape Shape, opts ...Option[T]) (*MemRef[T], error) {
	m := &MemRef[T]{alloc: HeapAllocator[T]{}}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.Create(shape); err != nil {
		return nil, err
	}
	return m, nil
}

// NewView builds a non-owning descriptor over caller memory. Strides and
// size are derived from the shape exactly as in New but no buffer is
// allocated and data is never released by the descriptor.
func NewView[T Element](shape Shape, data []T) (*MemRef[T], error) {
	return NewStridedView(shape, shape.Strides(), data)
}

// NewStridedView is NewView with an explicit layout, for callers whose
// memory is not row major. The strides are taken as supplied; size is still
// the product of the extents and data must hold at least that many
// elements under the row major bound.
func NewStridedView[T Element](shape Shape, strides []int64, data []T) (*MemRef[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(strides) != len(shape) {
		return nil, fmt.Errorf("%w: %d strides for rank %d shape", ErrRankMismatch, len(strides), len(shape))
	}
	size := shape.NumElements()
	if int64(len(data)) < size {
		return nil, fmt.Errorf("%w: shape needs %d elements, view holds %d", ErrShapeMismatch, size, len(data))
	}
	m := &MemRef[T]{
		sizes:   shape.Clone(),
		strides: append([]int64(nil), strides...),
		size:    size,
		view:    data,
		alloc:   HeapAllocator[T]{},
	}
	return m, nil
}

// Create reshapes the descriptor and allocates a fresh owned buffer. Any
// previously owned buffer is released first, so repeated Create calls on
// the same descriptor cannot leak. A zero-element shape leaves the
// descriptor empty with no allocation.
func (m *MemRef[T]) Create(shape Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	if m.sizes != nil && len(shape) != len(m.sizes) {
		return fmt.Errorf("%w: descriptor has rank %d, shape has rank %d", ErrRankMismatch, len(m.sizes), len(shape))
	}
	size := shape.NumElements()
	var buf []T
	if size > 0 {
		var err error
		buf, err = m.alloc.Alloc(size)
		if err != nil {
			return err
		}
	}
	m.Release()
	m.sizes = shape.Clone()
	m.strides = shape.Strides()
	m.size = size
	m.data = buf
	m.view = buf
	return nil
}

// Release returns the owned buffer to the allocator. Views and already
// released descriptors are untouched, so calling it twice is harmless.
func (m *MemRef[T]) Release() {
	if m.data != nil {
		m.alloc.Free(m.data)
	}
	m.data = nil
	m.view = nil
	m.size = 0
	for i := range m.sizes {
		m.sizes[i] = 0
		m.strides[i] = 0
	}
}

// Clone deep copies the descriptor. The clone owns an independent buffer
// with every element value copied through the source's view, whether the
// source owns or merely views its memory.
func (m *MemRef[T]) Clone() (*MemRef[T], error) {
	c := &MemRef[T]{alloc: m.alloc}
	if err := c.CopyFrom(m); err != nil {
		return nil, err
	}
	return c, nil
}

// CopyFrom replaces the receiver with a deep copy of other. Copying a
// descriptor onto itself is a no-op. A buffer the receiver already owns is
// released only after the new allocation succeeds, so a failed copy leaves
// the receiver's previous state intact.
func (m *MemRef[T]) CopyFrom(other *MemRef[T]) error {
	if m == other {
		return nil
	}
	var buf []T
	if other.size > 0 {
		var err error
		buf, err = m.alloc.Alloc(other.size)
		if err != nil {
			return err
		}
		copy(buf, other.view[:other.size])
	}
	m.Release()
	m.sizes = other.sizes.Clone()
	m.strides = append([]int64(nil), other.strides...)
	m.size = other.size
	m.data = buf
	m.view = buf
	return nil
}

// MoveFrom transfers other's buffer and layout into the receiver without
// copying elements. Other is left empty and no longer owns anything, so
// releasing both descriptors afterwards frees the buffer exactly once.
// Moving a descriptor onto itself is a no-op.
func (m *MemRef[T]) MoveFrom(other *MemRef[T]) {
	if m == other {
		return
	}
	m.Release()
	m.sizes = other.sizes
	m.strides = other.strides
	m.size = other.size
	m.data = other.data
	m.view = other.view
	m.alloc = other.alloc
	other.sizes = nil
	other.strides = nil
	other.size = 0
	other.data = nil
	other.view = nil
}

// Move returns a new descriptor owning the receiver's buffer, leaving the
// receiver empty.
func (m *MemRef[T]) Move() *MemRef[T] {
	c := &MemRef[T]{}
	c.MoveFrom(m)
	return c
}

func (m *MemRef[T]) Rank() int {
	return len(m.sizes)
}

// Sizes returns the extents. The slice is the descriptor's own; callers
// must not modify it.
func (m *MemRef[T]) Sizes() Shape {
	return m.sizes
}

func (m *MemRef[T]) Strides() []int64 {
	return m.strides
}

func (m *MemRef[T]) NumElements() int64 {
	return m.size
}

// Data returns the slice elements are accessed through. For owning
// descriptors it is the owned buffer, for views the caller's memory.
func (m *MemRef[T]) Data() []T {
	return m.view
}

func (m *MemRef[T]) IsView() bool {
	return m.view != nil && m.data == nil
}

func (m *MemRef[T]) IsEmpty() bool {
	return m.view == nil
}

// Offset maps an n-dimensional index to a flat element offset using the
// descriptor's strides. Bounds are checked per dimension.
func (m *MemRef[T]) Offset(indices ...int64) (int64, error) {
	if len(indices) != len(m.sizes) {
		return 0, fmt.Errorf("%w: %d indices for rank %d descriptor", ErrRankMismatch, len(indices), len(m.sizes))
	}
	var off int64
	for i, idx := range indices {
		if idx < 0 || idx >= m.sizes[i] {
			return 0, fmt.Errorf("%w: index %d out of [0,%d) at dimension %d", ErrIndexOutOfRange, idx, m.sizes[i], i)
		}
		off += idx * m.strides[i]
	}
	return off, nil
}

// At is the checked n-dimensional read.
func (m *MemRef[T]) At(indices ...int64) (T, error) {
	var zero T
	off, err := m.Offset(indices...)
	if err != nil {
		return zero, err
	}
	return m.view[off], nil
}

// SetAt is the checked n-dimensional write.
func (m *MemRef[T]) SetAt(value T, indices ...int64) error {
	off, err := m.Offset(indices...)
	if err != nil {
		return err
	}
	m.view[off] = value
	return nil
}

// AtFlat is the checked flat read.
func (m *MemRef[T]) AtFlat(index int64) (T, error) {
	var zero T
	if index < 0 || index >= m.size {
		return zero, fmt.Errorf("%w: flat index %d out of [0,%d)", ErrIndexOutOfRange, index, m.size)
	}
	return m.view[index], nil
}

// SetFlat is the checked flat write.
func (m *MemRef[T]) SetFlat(index int64, value T) error {
	if index < 0 || index >= m.size {
		return fmt.Errorf("%w: flat index %d out of [0,%d)", ErrIndexOutOfRange, index, m.size)
	}
	m.view[index] = value
	return nil
}

// Load reads without bounds checks. Hot path for kernel adapters; the
// caller is responsible for index validity.
func (m *MemRef[T]) Load(indices ...int64) T {
	var off int64
	for i, idx := range indices {
		off += idx * m.strides[i]
	}
	return m.view[off]
}

// Store writes without bounds checks.
func (m *MemRef[T]) Store(value T, indices ...int64) {
	var off int64
	for i, idx := range indices {
		off += idx * m.strides[i]
	}
	m.view[off] = value
}

// LoadFlat reads a flat offset without bounds checks.
func (m *MemRef[T]) LoadFlat(index int64) T {
	return m.view[index]
}

// StoreFlat writes a flat offset without bounds checks.
func (m *MemRef[T]) StoreFlat(index int64, value T) {
	m.view[index] = value
}
