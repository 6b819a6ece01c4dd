package engine

import (
	"image"
	"image/color"
)

// PixelBuffer is a row-major grid of RGB pixels, three bytes per pixel.
type PixelBuffer struct {
	pix    []byte
	width  int
	height int
}

func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		pix:    make([]byte, width*height*3),
		width:  width,
		height: height,
	}
}

func (b *PixelBuffer) Width() int  { return b.width }
func (b *PixelBuffer) Height() int { return b.height }

// Pix exposes the raw RGB bytes. Callers must not keep it across frames.
func (b *PixelBuffer) Pix() []byte { return b.pix }

func (b *PixelBuffer) Set(x, y int, c RGB) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 3
	b.pix[i] = c[0]
	b.pix[i+1] = c[1]
	b.pix[i+2] = c[2]
}

func (b *PixelBuffer) RGBAt(x, y int) RGB {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return RGB{}
	}
	i := (y*b.width + x) * 3
	return RGB{b.pix[i], b.pix[i+1], b.pix[i+2]}
}

// Fill sets every pixel to c.
func (b *PixelBuffer) Fill(c RGB) {
	for i := 0; i < len(b.pix); i += 3 {
		b.pix[i] = c[0]
		b.pix[i+1] = c[1]
		b.pix[i+2] = c[2]
	}
}

// RGBA expands the buffer into opaque RGBA bytes, reusing dst when it is large
// enough. The result is what texture uploads expect.
func (b *PixelBuffer) RGBA(dst []byte) []byte {
	n := b.width * b.height * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for src, out := 0, 0; src < len(b.pix); src, out = src+3, out+4 {
		dst[out] = b.pix[src]
		dst[out+1] = b.pix[src+1]
		dst[out+2] = b.pix[src+2]
		dst[out+3] = 0xff
	}
	return dst
}

// ColorModel, Bounds and At make the buffer an image.Image.

func (b *PixelBuffer) ColorModel() color.Model { return color.RGBAModel }

func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

func (b *PixelBuffer) At(x, y int) color.Color {
	c := b.RGBAt(x, y)
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
}
