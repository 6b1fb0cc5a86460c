package memref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComputesLayout(t *testing.T) {
	m, err := New[float32](Shape{4, 4})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Rank())
	assert.Equal(t, Shape{4, 4}, m.Sizes())
	assert.Equal(t, []int64{4, 1}, m.Strides())
	assert.EqualValues(t, 16, m.NumElements())
	assert.False(t, m.IsView())
	assert.False(t, m.IsEmpty())
	assert.Len(t, m.Data(), 16)
}

func TestNewZeroExtentIsEmpty(t *testing.T) {
	m, err := New[float32](Shape{4, 0})
	require.NoError(t, err)

	assert.True(t, m.IsEmpty())
	assert.EqualValues(t, 0, m.NumElements())
}

func TestNewRejectsNegativeExtent(t *testing.T) {
	_, err := New[float32](Shape{4, -2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewViewDoesNotAllocate(t *testing.T) {
	backing := make([]float32, 12)
	backing[5] = 42

	v, err := NewView[float32](Shape{3, 4}, backing)
	require.NoError(t, err)

	assert.True(t, v.IsView())
	assert.Equal(t, []int64{4, 1}, v.Strides())
	assert.EqualValues(t, 42, v.LoadFlat(5))

	// Writes land in the caller's memory.
	v.Store(7, 0, 0)
	assert.EqualValues(t, 7, backing[0])

	// Release must never touch caller memory.
	v.Release()
	assert.EqualValues(t, 7, backing[0])
}

func TestNewViewTooSmall(t *testing.T) {
	_, err := NewView[float32](Shape{3, 4}, make([]float32, 11))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewStridedView(t *testing.T) {
	// Column major 2x3 layout over a 6 element buffer.
	backing := []float32{0, 1, 2, 3, 4, 5}
	v, err := NewStridedView[float32](Shape{2, 3}, []int64{1, 2}, backing)
	require.NoError(t, err)

	val, err := v.At(1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, val)

	_, err = NewStridedView[float32](Shape{2, 3}, []int64{1}, backing)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRankMismatch)
}

func TestCreateReleasesPreviousBuffer(t *testing.T) {
	tracker := NewTrackingAllocator[float32](nil)
	m, err := New[float32](Shape{4, 4}, WithAllocator[float32](tracker))
	require.NoError(t, err)

	require.NoError(t, m.Create(Shape{2, 2}))
	assert.EqualValues(t, 4, m.NumElements())

	allocs, frees := tracker.Counts()
	assert.EqualValues(t, 2, allocs)
	assert.EqualValues(t, 1, frees)
	assert.EqualValues(t, 1, tracker.Live())
}

func TestCreateRankIsFixed(t *testing.T) {
	m, err := New[float32](Shape{4, 4})
	require.NoError(t, err)

	err = m.Create(Shape{2, 2, 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRankMismatch)
	// Failed create leaves the descriptor untouched.
	assert.EqualValues(t, 16, m.NumElements())
}

func TestCloneIsDeep(t *testing.T) {
	m, err := New[float32](Shape{2, 2})
	require.NoError(t, err)
	for i := int64(0); i < 4; i++ {
		m.StoreFlat(i, float32(i)*10)
	}

	c, err := m.Clone()
	require.NoError(t, err)

	for i := int64(0); i < 4; i++ {
		assert.Equal(t, float32(i)*10, c.LoadFlat(i))
	}

	// Mutating the clone must not leak back into the source.
	c.StoreFlat(0, 999)
	assert.EqualValues(t, 0, m.LoadFlat(0))
	assert.False(t, c.IsView())
}

func TestCloneOfViewOwns(t *testing.T) {
	backing := []float32{1, 2, 3, 4}
	v, err := NewView[float32](Shape{2, 2}, backing)
	require.NoError(t, err)

	c, err := v.Clone()
	require.NoError(t, err)
	assert.False(t, c.IsView())

	backing[0] = 100
	assert.EqualValues(t, 1, c.LoadFlat(0))
}

func TestCopyFromSelfIsNoop(t *testing.T) {
	tracker := NewTrackingAllocator[float32](nil)
	m, err := New[float32](Shape{2, 2}, WithAllocator[float32](tracker))
	require.NoError(t, err)
	m.StoreFlat(0, 5)

	require.NoError(t, m.CopyFrom(m))
	assert.EqualValues(t, 5, m.LoadFlat(0))
	assert.EqualValues(t, 1, tracker.Live())
}

func TestCopyFromReleasesOldBuffer(t *testing.T) {
	tracker := NewTrackingAllocator[float32](nil)
	dst, err := New[float32](Shape{4, 4}, WithAllocator[float32](tracker))
	require.NoError(t, err)
	src, err := New[float32](Shape{4, 4}, WithAllocator[float32](tracker))
	require.NoError(t, err)
	src.StoreFlat(3, 33)

	require.NoError(t, dst.CopyFrom(src))
	assert.EqualValues(t, 33, dst.LoadFlat(3))

	dst.Release()
	src.Release()
	assert.EqualValues(t, 0, tracker.Live())
}

func TestMoveTransfersOwnership(t *testing.T) {
	tracker := NewTrackingAllocator[float32](nil)
	src, err := New[float32](Shape{4, 4}, WithAllocator[float32](tracker))
	require.NoError(t, err)
	src.StoreFlat(15, 240)

	dst := src.Move()
	assert.EqualValues(t, 240, dst.LoadFlat(15))
	assert.Equal(t, Shape{4, 4}, dst.Sizes())

	// Source is empty and releasing it must not free the moved buffer.
	assert.True(t, src.IsEmpty())
	assert.EqualValues(t, 0, src.NumElements())
	src.Release()
	assert.EqualValues(t, 240, dst.LoadFlat(15))

	dst.Release()
	assert.EqualValues(t, 0, tracker.Live())
}

func TestMoveFromReleasesDestinationBuffer(t *testing.T) {
	tracker := NewTrackingAllocator[float32](nil)
	dst, err := New[float32](Shape{2, 2}, WithAllocator[float32](tracker))
	require.NoError(t, err)
	src, err := New[float32](Shape{4, 4}, WithAllocator[float32](tracker))
	require.NoError(t, err)

	dst.MoveFrom(src)
	assert.EqualValues(t, 16, dst.NumElements())

	dst.Release()
	src.Release()
	assert.EqualValues(t, 0, tracker.Live())
}

func TestMoveFromSelfIsNoop(t *testing.T) {
	m, err := New[float32](Shape{2, 2})
	require.NoError(t, err)
	m.StoreFlat(0, 5)

	m.MoveFrom(m)
	assert.EqualValues(t, 5, m.LoadFlat(0))
	assert.EqualValues(t, 4, m.NumElements())
}

func TestReleaseIsIdempotent(t *testing.T) {
	tracker := NewTrackingAllocator[float32](nil)
	m, err := New[float32](Shape{2, 2}, WithAllocator[float32](tracker))
	require.NoError(t, err)

	m.Release()
	m.Release()

	_, frees := tracker.Counts()
	assert.EqualValues(t, 1, frees)
	assert.True(t, m.IsEmpty())
}

func TestCheckedAccess(t *testing.T) {
	m, err := New[int32](Shape{2, 3})
	require.NoError(t, err)

	require.NoError(t, m.SetAt(7, 1, 2))
	val, err := m.At(1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 7, val)

	_, err = m.At(1)
	assert.ErrorIs(t, err, ErrRankMismatch)

	_, err = m.At(1, 3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = m.At(-1, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = m.AtFlat(6)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	err = m.SetFlat(-1, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestUncheckedAccessMatchesStrides(t *testing.T) {
	m, err := New[int32](Shape{2, 3})
	require.NoError(t, err)

	m.Store(42, 1, 1)
	assert.EqualValues(t, 42, m.LoadFlat(4))
	assert.EqualValues(t, 42, m.Load(1, 1))
}

func TestHeader(t *testing.T) {
	m, err := New[float32](Shape{2, 3})
	require.NoError(t, err)

	h := m.Header()
	assert.Equal(t, 2, h.Rank)
	assert.Equal(t, []int64{3, 1}, h.Strides)
	assert.NotNil(t, h.Aligned)

	empty := &MemRef[float32]{}
	assert.Nil(t, empty.Header().Aligned)
}
