package imgref

import (
	"testing"

	"github.com/kestrelml/stridebuf/memref"
	"github.com/kestrelml/stridebuf/options"
	"github.com/kestrelml/stridebuf/pixel"
	"github.com/kestrelml/stridebuf/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutShapeFor(t *testing.T) {
	for _, tc := range []struct {
		name     string
		layout   Layout
		expected memref.Shape
	}{
		{
			name:     "grayscale",
			layout:   GrayscaleLayout(),
			expected: memref.Shape{480, 640},
		},
		{
			name:     "interleaved",
			layout:   InterleavedLayout(3),
			expected: memref.Shape{1, 480, 640, 3},
		},
		{
			name:     "planar",
			layout:   PlanarLayout(3),
			expected: memref.Shape{1, 3, 480, 640},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			shape := tc.layout.ShapeFor(480, 640)
			assert.Equal(t, tc.expected, shape)
			require.NoError(t, tc.layout.Validate(shape))

			rows, cols := tc.layout.Extents(shape)
			assert.EqualValues(t, 480, rows)
			assert.EqualValues(t, 640, cols)
		})
	}
}

func TestLayoutValidate(t *testing.T) {
	err := InterleavedLayout(3).Validate(memref.Shape{1, 4, 4, 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, memref.ErrShapeMismatch)

	err = PlanarLayout(3).Validate(memref.Shape{2, 3, 4, 4})
	require.Error(t, err)
	assert.ErrorIs(t, err, memref.ErrShapeMismatch)

	err = GrayscaleLayout().Validate(memref.Shape{4})
	require.Error(t, err)
	assert.ErrorIs(t, err, memref.ErrRankMismatch)
}

func TestLayoutKindString(t *testing.T) {
	assert.Equal(t, "grayscale", Grayscale.String())
	assert.Equal(t, "interleaved", Interleaved.String())
	assert.Equal(t, "planar", Planar.String())
}

func TestPixelAccessorAcrossLayouts(t *testing.T) {
	// Same source viewed through every layout must agree pixel for pixel.
	src, err := pixel.NewBuffer(3, 4, 3)
	require.NoError(t, err)
	for i := range src.Data {
		src.Data[i] = uint8(i * 2)
	}

	expected := util.MakeMatrix2D[float32](3, 4)
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			expected[r][c] = float32(src.At(r, c, 1))
		}
	}

	interleaved, err := FromPixels[float32](src, &options.IngestOptions{Layout: options.LAYOUT_NHWC})
	require.NoError(t, err)

	planar, err := FromPixels[float32](src, &options.IngestOptions{Layout: options.LAYOUT_NCHW})
	require.NoError(t, err)

	for r := int64(0); r < 3; r++ {
		for c := int64(0); c < 4; c++ {
			assert.Equal(t, expected[r][c], interleaved.Pixel(r, c, 1))
			assert.Equal(t, expected[r][c], planar.Pixel(r, c, 1))
		}
	}
}
