package memref

import "errors"

var (
	// ErrAllocationFailure is returned when the allocator cannot satisfy a
	// requested buffer size. A failed request is never downgraded to a
	// smaller buffer.
	ErrAllocationFailure = errors.New("buffer allocation failure")

	// ErrRankMismatch is returned when an index or shape has a different
	// number of dimensions than the descriptor.
	ErrRankMismatch = errors.New("rank mismatch")

	// ErrShapeMismatch is returned when a shape is invalid or inconsistent
	// with the data it is meant to describe.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrIndexOutOfRange is returned by the checked accessors.
	ErrIndexOutOfRange = errors.New("index out of range")
)
