package memref

import "unsafe"

// Header is the fixed layout handed across the boundary to generated
// kernels: rank, extents, strides and the base pointer of the usable
// elements. Sizes and strides are machine word integers in element units.
//
// The pointer is only valid while the descriptor it came from is alive and
// unreleased; the header itself carries no ownership.
type Header struct {
	Rank    int
	Sizes   []int64
	Strides []int64
	Aligned unsafe.Pointer
}

// Header exports the descriptor's kernel-facing layout. Empty descriptors
// yield a nil base pointer.
func (m *MemRef[T]) Header() Header {
	h := Header{
		Rank:    len(m.sizes),
		Sizes:   m.sizes,
		Strides: m.strides,
	}
	if len(m.view) > 0 {
		h.Aligned = unsafe.Pointer(&m.view[0])
	}
	return h
}
