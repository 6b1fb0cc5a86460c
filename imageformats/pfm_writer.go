package imageformats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kestrelml/stridebuf/imgref"
	"github.com/kestrelml/stridebuf/memref"
	"github.com/kestrelml/stridebuf/pixel"
)

// WritePFM writes an image descriptor as a portable float map: "Pf" for
// grayscale, "PF" for 3-channel. Rows are written bottom up with big endian
// float32 samples, scale 1.0. Normalized descriptors map directly onto the
// PFM unit range.
func WritePFM[T memref.Element](img *imgref.Img[T], output io.Writer) error {

	cCount := img.Channels()
	if cCount != 1 && cCount != 3 {
		return fmt.Errorf("%w: PFM supports 1 or 3 channels, got %d", pixel.ErrUnsupportedFormat, cCount)
	}

	rows, cols := img.Layout().Extents(img.Sizes())

	pf := "Pf"
	if cCount == 3 {
		pf = "PF"
	}
	header := fmt.Sprintf("%s\n%d %d\n1.0\n", pf, cols, rows)
	if _, err := output.Write([]byte(header)); err != nil {
		return err
	}

	var buf bytes.Buffer
	for y := rows - 1; y >= 0; y-- {
		for x := int64(0); x < cols; x++ {
			for c := int64(0); c < cCount; c++ {
				buf.Reset()
				err := binary.Write(&buf, binary.BigEndian, float32(img.Pixel(y, x, c)))
				if err != nil {
					return err
				}
				if _, err = output.Write(buf.Bytes()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
