package imgref

import (
	"fmt"

	"github.com/kestrelml/stridebuf/memref"
)

// LayoutKind distinguishes the supported channel arrangements.
type LayoutKind int

const (
	// Grayscale is a rank 2 layout, rows then columns, single channel.
	Grayscale LayoutKind = iota
	// Interleaved is a rank 4 NHWC layout with a unit batch dimension and
	// the channel axis last.
	Interleaved
	// Planar is a rank 4 NCHW layout with a unit batch dimension and the
	// channel axis first after batch.
	Planar
)

func (k LayoutKind) String() string {
	switch k {
	case Grayscale:
		return "grayscale"
	case Interleaved:
		return "interleaved"
	case Planar:
		return "planar"
	}
	return fmt.Sprintf("LayoutKind(%d)", int(k))
}

// Layout is the tagged channel arrangement of an image descriptor, computed
// once at construction. Grayscale has no channel axis; the multi-channel
// kinds cache the axis and the channel extent so Channels never re-derives
// them from the rank.
type Layout struct {
	Kind        LayoutKind
	ChannelAxis int
	Channels    int64
}

func GrayscaleLayout() Layout {
	return Layout{Kind: Grayscale, ChannelAxis: -1, Channels: 1}
}

func InterleavedLayout(channels int64) Layout {
	return Layout{Kind: Interleaved, ChannelAxis: 3, Channels: channels}
}

func PlanarLayout(channels int64) Layout {
	return Layout{Kind: Planar, ChannelAxis: 1, Channels: channels}
}

// Rank returns the descriptor rank the layout implies: 2 for grayscale,
// 4 for the multi-channel kinds.
func (l Layout) Rank() int {
	if l.Kind == Grayscale {
		return 2
	}
	return 4
}

// ShapeFor derives the descriptor shape for a rows x cols source under this
// layout.
func (l Layout) ShapeFor(rows, cols int64) memref.Shape {
	switch l.Kind {
	case Interleaved:
		return memref.Shape{1, rows, cols, l.Channels}
	case Planar:
		return memref.Shape{1, l.Channels, rows, cols}
	default:
		return memref.Shape{rows, cols}
	}
}

// Extents recovers rows and cols from a shape laid out under this layout.
func (l Layout) Extents(shape memref.Shape) (rows, cols int64) {
	switch l.Kind {
	case Interleaved:
		return shape[1], shape[2]
	case Planar:
		return shape[2], shape[3]
	default:
		return shape[0], shape[1]
	}
}

// Validate checks a shape against the layout: matching rank, a unit batch
// dimension and a channel extent equal to the cached channel count.
func (l Layout) Validate(shape memref.Shape) error {
	if len(shape) != l.Rank() {
		return fmt.Errorf("%w: %s layout needs rank %d, shape has rank %d",
			memref.ErrRankMismatch, l.Kind, l.Rank(), len(shape))
	}
	if l.Kind == Grayscale {
		return nil
	}
	if shape[0] != 1 {
		return fmt.Errorf("%w: batch extent must be 1, got %d", memref.ErrShapeMismatch, shape[0])
	}
	if shape[l.ChannelAxis] != l.Channels {
		return fmt.Errorf("%w: channel extent %d does not match declared %d channels",
			memref.ErrShapeMismatch, shape[l.ChannelAxis], l.Channels)
	}
	return nil
}
