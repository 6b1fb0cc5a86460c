package pixel

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// FromImage extracts a sample buffer from a standard Go image. channels
// selects the target layout: 1 coerces to grayscale, 3 to interleaved RGB.
// Inputs in other color models are converted through x/image/draw first, so
// any image.Image source works.
func FromImage(img image.Image, channels int) (*Buffer, error) {
	bounds := img.Bounds()
	rows := bounds.Dy()
	cols := bounds.Dx()

	switch channels {
	case 1:
		gray, ok := img.(*image.Gray)
		if !ok {
			gray = image.NewGray(bounds)
			draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
		}
		buf, err := NewBuffer(rows, cols, 1)
		if err != nil {
			return nil, err
		}
		for r := 0; r < rows; r++ {
			copy(buf.Data[r*cols:(r+1)*cols], gray.Pix[r*gray.Stride:r*gray.Stride+cols])
		}
		return buf, nil
	case 3:
		nrgba, ok := img.(*image.NRGBA)
		if !ok {
			nrgba = image.NewNRGBA(bounds)
			draw.Draw(nrgba, bounds, img, bounds.Min, draw.Src)
		}
		buf, err := NewBuffer(rows, cols, 3)
		if err != nil {
			return nil, err
		}
		for r := 0; r < rows; r++ {
			src := nrgba.Pix[r*nrgba.Stride:]
			dst := buf.Data[r*cols*3:]
			for c := 0; c < cols; c++ {
				dst[c*3+0] = src[c*4+0]
				dst[c*3+1] = src[c*4+1]
				dst[c*3+2] = src[c*4+2]
			}
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, channels)
	}
}

// ToImage converts the buffer back to a standard Go image: Gray for one
// channel, NRGBA (opaque alpha) for three.
func (b *Buffer) ToImage() (image.Image, error) {
	switch b.Channels {
	case 1:
		gray := image.NewGray(image.Rect(0, 0, b.Cols, b.Rows))
		for r := 0; r < b.Rows; r++ {
			copy(gray.Pix[r*gray.Stride:r*gray.Stride+b.Cols], b.Data[r*b.Cols:(r+1)*b.Cols])
		}
		return gray, nil
	case 3:
		nrgba := image.NewNRGBA(image.Rect(0, 0, b.Cols, b.Rows))
		for r := 0; r < b.Rows; r++ {
			src := b.Data[r*b.Cols*3:]
			dst := nrgba.Pix[r*nrgba.Stride:]
			for c := 0; c < b.Cols; c++ {
				dst[c*4+0] = src[c*3+0]
				dst[c*4+1] = src[c*3+1]
				dst[c*4+2] = src[c*3+2]
				dst[c*4+3] = 0xFF
			}
		}
		return nrgba, nil
	default:
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, b.Channels)
	}
}
