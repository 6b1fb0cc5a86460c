package pixel

import (
	"image/png"
	"io"
)

// PNGCodec implements Decoder and Encoder over the standard PNG package,
// coercing pixels to the configured channel count on decode.
type PNGCodec struct {
	Channels int
}

func NewPNGCodec(channels int) *PNGCodec {
	return &PNGCodec{Channels: channels}
}

func (p *PNGCodec) Decode(r io.Reader) (*Buffer, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(img, p.Channels)
}

func (p *PNGCodec) Encode(w io.Writer, buf *Buffer) error {
	img, err := buf.ToImage()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
