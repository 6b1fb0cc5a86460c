package imgref

import (
	"fmt"
	"math"

	"github.com/kestrelml/stridebuf/memref"
	"github.com/kestrelml/stridebuf/options"
	"github.com/kestrelml/stridebuf/pixel"
	"github.com/kestrelml/stridebuf/util"
	log "github.com/sirupsen/logrus"
)

// Img specializes a strided descriptor for 2D/3D pixel data. The layout is
// fixed at construction: rank 2 for grayscale, rank 4 (NHWC or NCHW, unit
// batch) for multi-channel. Whether the samples were normalized on
// ingestion is recorded so export can mirror it.
type Img[T memref.Element] struct {
	*memref.MemRef[T]

	layout     Layout
	normalized bool
}

// New builds an owning image descriptor for an explicit shape, for direct
// numeric use, e.g. receiving a kernel result.
func New[T memref.Element](shape memref.Shape, layout Layout, opts ...memref.Option[T]) (*Img[T], error) {
	if err := layout.Validate(shape); err != nil {
		return nil, err
	}
	m, err := memref.New[T](shape, opts...)
	if err != nil {
		return nil, err
	}
	return &Img[T]{MemRef: m, layout: layout}, nil
}

// ViewOf wraps caller-owned element memory, typically a buffer produced by
// a kernel, without copying. The view never releases data.
func ViewOf[T memref.Element](shape memref.Shape, data []T, layout Layout) (*Img[T], error) {
	if err := layout.Validate(shape); err != nil {
		return nil, err
	}
	m, err := memref.NewView[T](shape, data)
	if err != nil {
		return nil, err
	}
	return &Img[T]{MemRef: m, layout: layout}, nil
}

// FromPixels ingests a decoded pixel buffer: validates the source, derives
// the target shape, allocates fresh storage and copies every sample row
// major, dividing by 255 when normalization is requested. On any failure no
// descriptor is returned and nothing is left half populated.
func FromPixels[T memref.Element](src *pixel.Buffer, opts *options.IngestOptions, mopts ...memref.Option[T]) (*Img[T], error) {
	opts = options.NewIngestOptions(opts)

	if src.Format != pixel.Sample8 {
		return nil, fmt.Errorf("%w: sample format %d", pixel.ErrUnsupportedFormat, src.Format)
	}
	if src.Channels != 1 && src.Channels != 3 {
		// Log for pipeline diagnostics, but this is a hard failure: a
		// silently unpopulated container is worse than no container.
		log.Warnf("only 1-channel gray and 3-channel RGB sources are supported, got %d channels", src.Channels)
		return nil, fmt.Errorf("%w: %d channels", pixel.ErrUnsupportedFormat, src.Channels)
	}

	layout, err := resolveLayout(opts.Layout, src.Channels)
	if err != nil {
		return nil, err
	}

	var shape memref.Shape
	if opts.Shape != nil {
		shape = memref.Shape(opts.Shape).Clone()
		if err := layout.Validate(shape); err != nil {
			return nil, err
		}
		want := int64(src.Rows) * int64(src.Cols) * int64(src.Channels)
		if shape.NumElements() != want {
			return nil, fmt.Errorf("%w: override shape holds %d elements, source has %d samples",
				memref.ErrShapeMismatch, shape.NumElements(), want)
		}
	} else {
		shape = layout.ShapeFor(int64(src.Rows), int64(src.Cols))
	}

	m, err := memref.New[T](shape, mopts...)
	if err != nil {
		return nil, err
	}

	img := &Img[T]{MemRef: m, layout: layout, normalized: opts.Normalize}
	img.ingest(src, opts.Normalize)
	return img, nil
}

func resolveLayout(sel int32, channels int) (Layout, error) {
	switch sel {
	case options.LAYOUT_AUTO:
		if channels == 1 {
			return GrayscaleLayout(), nil
		}
		return InterleavedLayout(int64(channels)), nil
	case options.LAYOUT_GRAYSCALE:
		if channels != 1 {
			return Layout{}, fmt.Errorf("%w: grayscale layout needs a 1-channel source, got %d",
				memref.ErrShapeMismatch, channels)
		}
		return GrayscaleLayout(), nil
	case options.LAYOUT_NHWC:
		if channels != 3 {
			return Layout{}, fmt.Errorf("%w: NHWC layout needs a 3-channel source, got %d",
				memref.ErrShapeMismatch, channels)
		}
		return InterleavedLayout(int64(channels)), nil
	case options.LAYOUT_NCHW:
		if channels != 3 {
			return Layout{}, fmt.Errorf("%w: NCHW layout needs a 3-channel source, got %d",
				memref.ErrShapeMismatch, channels)
		}
		return PlanarLayout(int64(channels)), nil
	default:
		return Layout{}, fmt.Errorf("%w: unknown layout selector %d", memref.ErrShapeMismatch, sel)
	}
}

func (im *Img[T]) ingest(src *pixel.Buffer, normalize bool) {
	rows := int64(src.Rows)
	cols := int64(src.Cols)
	switch im.layout.Kind {
	case Grayscale:
		k := int64(0)
		for r := int64(0); r < rows; r++ {
			for c := int64(0); c < cols; c++ {
				im.StoreFlat(k, convertSample[T](src.At(int(r), int(c), 0), normalize))
				k++
			}
		}
	case Interleaved:
		// Batch extent is 1, so NHWC flat order matches the source's
		// interleaved row major order.
		k := int64(0)
		for r := int64(0); r < rows; r++ {
			for c := int64(0); c < cols; c++ {
				for ch := 0; ch < src.Channels; ch++ {
					im.StoreFlat(k, convertSample[T](src.At(int(r), int(c), ch), normalize))
					k++
				}
			}
		}
	case Planar:
		plane := rows * cols
		for ch := 0; ch < src.Channels; ch++ {
			k := int64(ch) * plane
			for r := int64(0); r < rows; r++ {
				for c := int64(0); c < cols; c++ {
					im.StoreFlat(k, convertSample[T](src.At(int(r), int(c), ch), normalize))
					k++
				}
			}
		}
	}
}

func convertSample[T memref.Element](sample uint8, normalize bool) T {
	if normalize {
		return T(float64(sample) / 255.0)
	}
	return T(sample)
}

// Pixel reads the sample at row r, column c, channel ch, resolving the
// descriptor's layout. Unchecked, like Load.
func (im *Img[T]) Pixel(r, c, ch int64) T {
	switch im.layout.Kind {
	case Interleaved:
		return im.Load(0, r, c, ch)
	case Planar:
		return im.Load(0, ch, r, c)
	default:
		return im.Load(r, c)
	}
}

// Layout returns the channel arrangement fixed at construction.
func (im *Img[T]) Layout() Layout {
	return im.layout
}

// Channels returns 1 for grayscale descriptors and the cached channel
// extent otherwise.
func (im *Img[T]) Channels() int64 {
	return util.IfThenElse(im.layout.Kind == Grayscale, 1, im.layout.Channels)
}

// Normalized reports whether ingestion divided samples into the unit
// interval.
func (im *Img[T]) Normalized() bool {
	return im.normalized
}

// Clone deep copies the image, layout metadata included.
func (im *Img[T]) Clone() (*Img[T], error) {
	m, err := im.MemRef.Clone()
	if err != nil {
		return nil, err
	}
	return &Img[T]{MemRef: m, layout: im.layout, normalized: im.normalized}, nil
}

// Move transfers the buffer into a new image and leaves the receiver's
// descriptor empty. Layout metadata stays on both so a re-Create keeps the
// same arrangement.
func (im *Img[T]) Move() *Img[T] {
	return &Img[T]{MemRef: im.MemRef.Move(), layout: im.layout, normalized: im.normalized}
}

// ToPixels exports the descriptor back to a foreign pixel buffer, the
// mirror of FromPixels. With a nil opts the samples are multiplied back by
// 255 exactly when the image was ingested normalized, so an ingest/export
// pair round-trips the original 8-bit values.
func (im *Img[T]) ToPixels(opts *options.ExportOptions) (*pixel.Buffer, error) {
	if im.IsEmpty() {
		return nil, fmt.Errorf("%w: cannot export an empty descriptor", memref.ErrShapeMismatch)
	}
	denormalize := im.normalized
	if opts != nil {
		denormalize = opts.Denormalize
	}

	rows, cols := im.layout.Extents(im.Sizes())
	channels := int(im.Channels())
	buf, err := pixel.NewBuffer(int(rows), int(cols), channels)
	if err != nil {
		return nil, err
	}

	switch im.layout.Kind {
	case Grayscale:
		k := int64(0)
		for r := int64(0); r < rows; r++ {
			for c := int64(0); c < cols; c++ {
				buf.Set(int(r), int(c), 0, exportSample(im.LoadFlat(k), denormalize))
				k++
			}
		}
	case Interleaved:
		k := int64(0)
		for r := int64(0); r < rows; r++ {
			for c := int64(0); c < cols; c++ {
				for ch := 0; ch < channels; ch++ {
					buf.Set(int(r), int(c), ch, exportSample(im.LoadFlat(k), denormalize))
					k++
				}
			}
		}
	case Planar:
		plane := rows * cols
		for ch := 0; ch < channels; ch++ {
			k := int64(ch) * plane
			for r := int64(0); r < rows; r++ {
				for c := int64(0); c < cols; c++ {
					buf.Set(int(r), int(c), ch, exportSample(im.LoadFlat(k), denormalize))
					k++
				}
			}
		}
	}
	return buf, nil
}

func exportSample[T memref.Element](v T, denormalize bool) uint8 {
	f := float64(v)
	if denormalize {
		f *= 255.0
	}
	f = math.Round(f)
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f)
}
