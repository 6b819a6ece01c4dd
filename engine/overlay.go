package engine

import (
	"math"

	"gridcaster/level"
)

// Primitive is the kind of geometry a draw call renders.
type Primitive uint8

const (
	Triangles Primitive = iota
	Lines
)

// Floats per vertex: position(3) + color(3), and the same plus UV(2).
const (
	ColorStride    = 6
	TexturedStride = 8
)

// headingLength is the length of the player's heading line, in world units.
const headingLength = 20

var (
	colorWallCell  = [3]float32{1, 1, 1}
	colorEmptyCell = [3]float32{0, 0, 0}
	colorPlayer    = [3]float32{0, 0, 1}
	colorHeading   = [3]float32{1, 1, 0}
	colorRayH      = [3]float32{0, 1, 0}
	colorRayV      = [3]float32{1, 0, 0}
	colorCanvas    = [3]float32{1, 1, 1}
)

// Window is the pixel size the overlay's normalized coordinates refer to.
type Window struct {
	Width, Height int
}

// NDC converts a window pixel position to normalized device coordinates,
// with y pointing up.
func (w Window) NDC(x, y float64) (float32, float32) {
	hw, hh := float64(w.Width)/2, float64(w.Height)/2
	return float32((x - hw) / hw), float32(-(y - hh) / hh)
}

// Pixel is the inverse of NDC.
func (w Window) Pixel(nx, ny float32) (float64, float64) {
	hw, hh := float64(w.Width)/2, float64(w.Height)/2
	return float64(nx)*hw + hw, hh - float64(ny)*hh
}

// Overlay is one frame of debug geometry, split by what draws it.
type Overlay struct {
	Triangles []float32 // map cells then the player quad, ColorStride
	Lines     []float32 // heading then two segments per ray, ColorStride
	Canvas    []float32 // textured quad showing the pixel buffer, TexturedStride
}

// DrawCall is a (primitive, stride, start, end) range over Flat's vertices.
type DrawCall struct {
	Primitive  Primitive
	Stride     int
	Start, End int // float offsets, end exclusive
}

// Count is the number of vertices in the call.
func (c DrawCall) Count() int { return (c.End - c.Start) / c.Stride }

// Textured reports whether vertices carry UVs.
func (c DrawCall) Textured() bool { return c.Stride == TexturedStride }

// Flat concatenates the batches into one float sequence, returning the
// offsets where triangle and line vertices end.
func (o *Overlay) Flat() (vertices []float32, triangleEnd, lineEnd int) {
	vertices = make([]float32, 0, len(o.Triangles)+len(o.Lines)+len(o.Canvas))
	vertices = append(vertices, o.Triangles...)
	triangleEnd = len(vertices)
	vertices = append(vertices, o.Lines...)
	lineEnd = len(vertices)
	vertices = append(vertices, o.Canvas...)
	return vertices, triangleEnd, lineEnd
}

// DrawCalls lists the calls that render Flat's vertices in order.
func (o *Overlay) DrawCalls() []DrawCall {
	_, triangleEnd, lineEnd := o.Flat()
	total := lineEnd + len(o.Canvas)
	return []DrawCall{
		{Primitive: Triangles, Stride: ColorStride, Start: 0, End: triangleEnd},
		{Primitive: Lines, Stride: ColorStride, Start: triangleEnd, End: lineEnd},
		{Primitive: Triangles, Stride: TexturedStride, Start: lineEnd, End: total},
	}
}

// Render issues every draw call against r.
func (o *Overlay) Render(r Renderer) {
	vertices, _, _ := o.Flat()
	for _, call := range o.DrawCalls() {
		if call.Count() == 0 {
			continue
		}
		r.DrawArrays(call, vertices[call.Start:call.End])
	}
}

// OverlayBuilder emits minimap and ray geometry for a renderer.
type OverlayBuilder struct {
	cfg Config
	lvl *level.Level
	win Window
}

func NewOverlayBuilder(cfg Config, lvl *level.Level, win Window) *OverlayBuilder {
	return &OverlayBuilder{cfg: cfg, lvl: lvl, win: win}
}

// CanvasRect is the window area, in pixels, covered by the textured quad:
// right of the minimap, as tall as it.
func (b *OverlayBuilder) CanvasRect() (x0, y0, x1, y1 float64) {
	mapW := float64(b.lvl.Width()) * b.cfg.CellSize
	mapH := float64(b.lvl.Height()) * b.cfg.CellSize
	return mapW + 1, 0, float64(b.win.Width), mapH
}

// Build produces the overlay for a viewpoint and the rays cast from it.
func (b *OverlayBuilder) Build(vp Viewpoint, rays *Rays) *Overlay {
	o := &Overlay{}
	s := b.cfg.CellSize

	for row := 0; row < b.lvl.Height(); row++ {
		for col := 0; col < b.lvl.Width(); col++ {
			c := colorEmptyCell
			if b.lvl.IsWall(col, row) {
				c = colorWallCell
			}
			x, y := float64(col)*s, float64(row)*s
			o.Triangles = b.quad(o.Triangles, x, y, x+s, y+s, c)
		}
	}

	size := 2 * b.cfg.CollisionRadius
	o.Triangles = b.quad(o.Triangles, vp.X, vp.Y, vp.X+size, vp.Y+size, colorPlayer)

	cx, cy := vp.X+b.cfg.CollisionRadius, vp.Y+b.cfg.CollisionRadius
	o.Lines = b.line(o.Lines, cx, cy,
		cx+math.Cos(vp.Dir)*headingLength, cy+math.Sin(vp.Dir)*headingLength, colorHeading)

	if rays != nil {
		for i := 0; i < rays.Len(); i++ {
			h, v := rays.HorizontalEnds[i], rays.VerticalEnds[i]
			o.Lines = b.line(o.Lines, rays.Origin.X, rays.Origin.Y, h.X, h.Y, colorRayH)
			o.Lines = b.line(o.Lines, rays.Origin.X, rays.Origin.Y, v.X, v.Y, colorRayV)
		}
	}

	o.Canvas = b.canvas(o.Canvas)

	return o
}

// quad appends two triangles (tl, tr, bl) and (tr, bl, br).
func (b *OverlayBuilder) quad(dst []float32, x0, y0, x1, y1 float64, c [3]float32) []float32 {
	tl := b.pos(x0, y0)
	tr := b.pos(x1, y0)
	bl := b.pos(x0, y1)
	br := b.pos(x1, y1)
	for _, p := range [][3]float32{tl, tr, bl, tr, bl, br} {
		dst = append(dst, p[0], p[1], p[2], c[0], c[1], c[2])
	}
	return dst
}

func (b *OverlayBuilder) line(dst []float32, x0, y0, x1, y1 float64, c [3]float32) []float32 {
	for _, p := range [][3]float32{b.pos(x0, y0), b.pos(x1, y1)} {
		dst = append(dst, p[0], p[1], p[2], c[0], c[1], c[2])
	}
	return dst
}

func (b *OverlayBuilder) canvas(dst []float32) []float32 {
	x0, y0, x1, y1 := b.CanvasRect()
	type corner struct {
		p    [3]float32
		u, v float32
	}
	tl := corner{b.pos(x0, y0), 0, 0}
	tr := corner{b.pos(x1, y0), 1, 0}
	bl := corner{b.pos(x0, y1), 0, 1}
	br := corner{b.pos(x1, y1), 1, 1}

	for _, k := range []corner{tl, tr, bl, tr, br, bl} {
		dst = append(dst, k.p[0], k.p[1], k.p[2], colorCanvas[0], colorCanvas[1], colorCanvas[2], k.u, k.v)
	}
	return dst
}

func (b *OverlayBuilder) pos(x, y float64) [3]float32 {
	nx, ny := b.win.NDC(x, y)
	return [3]float32{nx, ny, 0}
}
