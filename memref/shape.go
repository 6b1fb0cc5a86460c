package memref

import "fmt"

// Shape holds the extent of each dimension of a descriptor. The first entry
// is the outermost (slowest varying) dimension.
type Shape []int64

// NumElements returns the product of all extents. An empty shape is treated
// as a scalar with a single element.
func (s Shape) NumElements() int64 {
	n := int64(1)
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Strides returns the row major strides for the shape: the innermost
// dimension is contiguous and every outer stride is the product of the
// extents after it.
func (s Shape) Strides() []int64 {
	strides := make([]int64, len(s))
	if len(s) == 0 {
		return strides
	}
	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("%w: negative extent %d at dimension %d", ErrShapeMismatch, dim, i)
		}
	}
	return nil
}

func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s Shape) Clone() Shape {
	c := make(Shape, len(s))
	copy(c, s)
	return c
}
