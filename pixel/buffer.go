package pixel

import (
	"errors"
	"fmt"
	"io"
)

// SampleFormat tags the per-sample storage of a decoded pixel buffer. Only
// 8-bit unsigned samples are produced by the decoders we consume today; the
// tag is part of the boundary contract so wider formats can be rejected
// explicitly instead of misread.
type SampleFormat int

const (
	Sample8 SampleFormat = iota
)

var (
	// ErrUnsupportedFormat is returned for channel counts or sample formats
	// the ingestion path does not handle. Only 1-channel grayscale and
	// 3-channel interleaved RGB sources are supported.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")

	// ErrBufferSize is returned when a sample slice does not match the
	// declared extents.
	ErrBufferSize = errors.New("pixel buffer size mismatch")
)

// Buffer is the foreign pixel representation handed over by a decoder or to
// an encoder: raw interleaved samples plus declared extents. It carries no
// ownership semantics; the descriptor types copy out of it on ingestion.
type Buffer struct {
	Data     []uint8
	Rows     int
	Cols     int
	Channels int
	Format   SampleFormat
}

// NewBuffer allocates a zeroed buffer for the given extents.
func NewBuffer(rows, cols, channels int) (*Buffer, error) {
	if rows < 0 || cols < 0 || channels < 1 {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrBufferSize, rows, cols, channels)
	}
	return &Buffer{
		Data:     make([]uint8, rows*cols*channels),
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Format:   Sample8,
	}, nil
}

// NewBufferWithData wraps existing samples. The slice is referenced, not
// copied, and must hold exactly rows*cols*channels samples.
func NewBufferWithData(rows, cols, channels int, data []uint8) (*Buffer, error) {
	if rows < 0 || cols < 0 || channels < 1 {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrBufferSize, rows, cols, channels)
	}
	if len(data) != rows*cols*channels {
		return nil, fmt.Errorf("%w: have %d samples, extents need %d", ErrBufferSize, len(data), rows*cols*channels)
	}
	return &Buffer{
		Data:     data,
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Format:   Sample8,
	}, nil
}

// At returns the sample at row r, column c, channel ch. Interleaved layout,
// no bounds checking.
func (b *Buffer) At(r, c, ch int) uint8 {
	return b.Data[(r*b.Cols+c)*b.Channels+ch]
}

// Set writes the sample at row r, column c, channel ch.
func (b *Buffer) Set(r, c, ch int, v uint8) {
	b.Data[(r*b.Cols+c)*b.Channels+ch] = v
}

// Decoder is the boundary to the image reading pipeline. The descriptor
// library performs no file I/O itself.
type Decoder interface {
	Decode(r io.Reader) (*Buffer, error)
}

// Encoder is the boundary to the image writing pipeline.
type Encoder interface {
	Encode(w io.Writer, buf *Buffer) error
}
