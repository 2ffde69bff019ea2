package render

import (
	"fmt"
	"image"
)

// Layout describes the byte order of a raw pixel buffer.
type Layout int

const (
	// Gray8 is one byte per pixel.
	Gray8 Layout = iota
	// RGB24 is three bytes per pixel, red first.
	RGB24
	// RGBA32 is four bytes per pixel, red first, alpha not premultiplied.
	RGBA32
	// BGRA32 is four bytes per pixel, blue first, as produced by most
	// native rasterizers for 32-bit ARGB on little-endian machines.
	BGRA32
)

// BytesPerPixel returns the pixel size of the layout.
func (l Layout) BytesPerPixel() int {
	switch l {
	case Gray8:
		return 1
	case RGB24:
		return 3
	case RGBA32, BGRA32:
		return 4
	}
	return 0
}

// Pixels is a raw pixel buffer. Stride is the length of a row in bytes and
// may exceed Width*BytesPerPixel; zero means rows are packed.
type Pixels struct {
	Data   []byte
	Width  int
	Height int
	Stride int
	Layout Layout
}

// Image converts the buffer to an image.Image. Gray buffers become
// *image.Gray; the others become *image.NRGBA.
func (p Pixels) Image() (image.Image, error) {
	bpp := p.Layout.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("unknown pixel layout %d", p.Layout)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", p.Width, p.Height)
	}
	stride := p.Stride
	if stride == 0 {
		stride = p.Width * bpp
	}
	if stride < p.Width*bpp {
		return nil, fmt.Errorf("stride %d shorter than row of %d bytes", stride, p.Width*bpp)
	}
	need := stride*(p.Height-1) + p.Width*bpp
	if len(p.Data) < need {
		return nil, fmt.Errorf("insufficient data: got %d, expected %d", len(p.Data), need)
	}

	rect := image.Rect(0, 0, p.Width, p.Height)
	if p.Layout == Gray8 {
		img := image.NewGray(rect)
		for y := 0; y < p.Height; y++ {
			copy(img.Pix[y*img.Stride:], p.Data[y*stride:y*stride+p.Width])
		}
		return img, nil
	}

	img := image.NewNRGBA(rect)
	for y := 0; y < p.Height; y++ {
		src := p.Data[y*stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < p.Width; x++ {
			s := src[x*bpp:]
			d := dst[x*4 : x*4+4]
			switch p.Layout {
			case RGB24:
				d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 0xFF
			case RGBA32:
				d[0], d[1], d[2], d[3] = s[0], s[1], s[2], s[3]
			case BGRA32:
				d[0], d[1], d[2], d[3] = s[2], s[1], s[0], s[3]
			}
		}
	}
	return img, nil
}
