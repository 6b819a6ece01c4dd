package display

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"gridcaster/engine"
)

// maxBatchVertices keeps index values inside uint16 and whole triangles in
// each batch.
const maxBatchVertices = 65535

// OverlayRenderer draws overlay batches onto an ebiten image.
type OverlayRenderer struct {
	win     engine.Window
	texture *Texture
	target  *ebiten.Image
	solid   *ebiten.Image
}

func NewOverlayRenderer(win engine.Window, texture *Texture) *OverlayRenderer {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)

	return &OverlayRenderer{
		win:     win,
		texture: texture,
		solid:   white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// Begin sets the image the following draw calls render into.
func (r *OverlayRenderer) Begin(target *ebiten.Image) {
	r.target = target
}

func (r *OverlayRenderer) DrawArrays(call engine.DrawCall, vertices []float32) {
	if r.target == nil {
		return
	}

	switch {
	case call.Primitive == engine.Lines:
		r.drawLines(call.Stride, vertices)
	case call.Textured():
		src := source{w: float32(r.texture.Width()), h: float32(r.texture.Height())}
		op := &ebiten.DrawTrianglesOptions{Filter: ebiten.FilterNearest}
		for _, b := range toVertices(vertices, call.Stride, r.win, src) {
			r.target.DrawTriangles(b.vertices, b.indices, r.texture.Image(), op)
		}
	default:
		// every vertex samples the middle of the solid white pixel
		src := source{x: 1, y: 1}
		for _, b := range toVertices(vertices, call.Stride, r.win, src) {
			r.target.DrawTriangles(b.vertices, b.indices, r.solid, nil)
		}
	}
}

func (r *OverlayRenderer) drawLines(stride int, vertices []float32) {
	for i := 0; i+2*stride <= len(vertices); i += 2 * stride {
		a, b := vertices[i:i+stride], vertices[i+stride:i+2*stride]
		x0, y0 := r.win.Pixel(a[0], a[1])
		x1, y1 := r.win.Pixel(b[0], b[1])
		vector.StrokeLine(r.target, float32(x0), float32(y0), float32(x1), float32(y1), 1, rgbaOf(a[3:6]), false)
	}
}

// source describes where textured vertices sample from: UVs scale by w and h,
// untextured vertices all sample (x, y).
type source struct {
	x, y float32
	w, h float32
}

type batch struct {
	vertices []ebiten.Vertex
	indices  []uint16
}

// toVertices converts interleaved overlay floats into ebiten vertices, split
// into batches small enough for uint16 indices.
func toVertices(data []float32, stride int, win engine.Window, src source) []batch {
	n := len(data) / stride
	per := maxBatchVertices - maxBatchVertices%3

	var out []batch
	for start := 0; start < n; start += per {
		end := start + per
		if end > n {
			end = n
		}

		b := batch{
			vertices: make([]ebiten.Vertex, 0, end-start),
			indices:  make([]uint16, 0, end-start),
		}
		for i := start; i < end; i++ {
			v := data[i*stride : (i+1)*stride]
			x, y := win.Pixel(v[0], v[1])

			sx, sy := src.x, src.y
			if stride == engine.TexturedStride {
				sx, sy = v[6]*src.w, v[7]*src.h
			}

			b.vertices = append(b.vertices, ebiten.Vertex{
				DstX:   float32(x),
				DstY:   float32(y),
				SrcX:   sx,
				SrcY:   sy,
				ColorR: v[3],
				ColorG: v[4],
				ColorB: v[5],
				ColorA: 1,
			})
			b.indices = append(b.indices, uint16(i-start))
		}
		out = append(out, b)
	}

	return out
}

func rgbaOf(c []float32) color.RGBA {
	return color.RGBA{
		R: uint8(c[0]*255 + 0.5),
		G: uint8(c[1]*255 + 0.5),
		B: uint8(c[2]*255 + 0.5),
		A: 255,
	}
}
