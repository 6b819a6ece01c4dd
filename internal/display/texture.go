package display

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"gridcaster/engine"
)

// Texture is the GPU side of the pixel buffer.
type Texture struct {
	img  *ebiten.Image
	rgba []byte
	w, h int
}

func NewTexture(width, height int) *Texture {
	return &Texture{
		img: ebiten.NewImage(width, height),
		w:   width,
		h:   height,
	}
}

func (t *Texture) Image() *ebiten.Image { return t.img }
func (t *Texture) Width() int           { return t.w }
func (t *Texture) Height() int          { return t.h }

// Upload replaces the texture contents with buf.
func (t *Texture) Upload(buf *engine.PixelBuffer) error {
	if buf.Width() != t.w || buf.Height() != t.h {
		return fmt.Errorf("texture is %dx%d, buffer is %dx%d", t.w, t.h, buf.Width(), buf.Height())
	}

	t.rgba = buf.RGBA(t.rgba)
	t.img.WritePixels(t.rgba)
	return nil
}
