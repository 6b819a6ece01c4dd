package engine

import (
	"math"
	"testing"
)

type recordingRenderer struct {
	calls  []DrawCall
	counts []int
}

func (r *recordingRenderer) DrawArrays(call DrawCall, vertices []float32) {
	r.calls = append(r.calls, call)
	r.counts = append(r.counts, len(vertices))
}

func buildTestOverlay(t *testing.T, withRays bool) (*OverlayBuilder, *Overlay) {
	t.Helper()
	lvl := ringLevel(t, 8, 8)
	cfg := DefaultConfig()
	b := NewOverlayBuilder(cfg, lvl, Window{Width: 1024, Height: 512})
	vp := Viewpoint{X: 200, Y: 200, Dir: 0.5}

	var rays *Rays
	if withRays {
		rays = NewRays(cfg.Rays)
		if err := newTestCaster(t, lvl).Cast(vp, rays); err != nil {
			t.Fatal(err)
		}
	}
	return b, b.Build(vp, rays)
}

func TestOverlayBatchSizes(t *testing.T) {
	_, o := buildTestOverlay(t, true)

	if got, want := len(o.Triangles), 64*6*ColorStride+6*ColorStride; got != want {
		t.Errorf("len(Triangles) = %d, want %d", got, want)
	}
	if got, want := len(o.Lines), 2*ColorStride+60*4*ColorStride; got != want {
		t.Errorf("len(Lines) = %d, want %d", got, want)
	}
	if got, want := len(o.Canvas), 6*TexturedStride; got != want {
		t.Errorf("len(Canvas) = %d, want %d", got, want)
	}

	vertices, triangleEnd, lineEnd := o.Flat()
	if triangleEnd != 2340 || lineEnd != 3792 || len(vertices) != 3840 {
		t.Errorf("Flat() offsets = %d/%d/%d, want 2340/3792/3840", triangleEnd, lineEnd, len(vertices))
	}
}

func TestOverlayDrawCalls(t *testing.T) {
	_, o := buildTestOverlay(t, true)

	calls := o.DrawCalls()
	want := []struct {
		prim     Primitive
		count    int
		textured bool
	}{
		{Triangles, 390, false},
		{Lines, 242, false},
		{Triangles, 6, true},
	}
	if len(calls) != len(want) {
		t.Fatalf("got %d draw calls, want %d", len(calls), len(want))
	}
	for i, w := range want {
		if calls[i].Primitive != w.prim || calls[i].Count() != w.count || calls[i].Textured() != w.textured {
			t.Errorf("call %d = %+v (count %d), want %+v", i, calls[i], calls[i].Count(), w)
		}
	}
	if calls[0].Start != 0 || calls[0].End != calls[1].Start || calls[1].End != calls[2].Start {
		t.Errorf("draw calls are not contiguous: %+v", calls)
	}
}

func TestOverlayWithoutRays(t *testing.T) {
	_, o := buildTestOverlay(t, false)

	if got := len(o.Lines); got != 2*ColorStride {
		t.Errorf("len(Lines) = %d, want only the heading", got)
	}

	r := &recordingRenderer{}
	o.Render(r)
	if len(r.calls) != 3 {
		t.Fatalf("rendered %d calls, want 3", len(r.calls))
	}
	if r.counts[1] != 2*ColorStride {
		t.Errorf("line call got %d floats, want %d", r.counts[1], 2*ColorStride)
	}
}

func TestOverlayRenderSkipsEmptyBatches(t *testing.T) {
	r := &recordingRenderer{}
	(&Overlay{}).Render(r)
	if len(r.calls) != 0 {
		t.Errorf("empty overlay issued %d calls", len(r.calls))
	}
}

func TestOverlayCoordinates(t *testing.T) {
	b, o := buildTestOverlay(t, true)

	// first vertex is the top-left corner of cell (0,0), a wall
	if o.Triangles[0] != -1 || o.Triangles[1] != 1 || o.Triangles[2] != 0 {
		t.Errorf("first vertex = %v, want (-1,1,0)", o.Triangles[:3])
	}
	if c := o.Triangles[3:6]; c[0] != 1 || c[1] != 1 || c[2] != 1 {
		t.Errorf("wall cell color = %v, want white", c)
	}

	// cell (1,1) is empty and starts at pixel (64,64)
	cell := (1*8 + 1) * 6 * ColorStride
	if c := o.Triangles[cell+3 : cell+6]; c[0] != 0 || c[1] != 0 || c[2] != 0 {
		t.Errorf("empty cell color = %v, want black", c)
	}

	x0, y0, x1, y1 := b.CanvasRect()
	if x0 != 513 || y0 != 0 || x1 != 1024 || y1 != 512 {
		t.Errorf("CanvasRect() = %v,%v,%v,%v", x0, y0, x1, y1)
	}
	tl := o.Canvas[:TexturedStride]
	if tl[0] != 1.0/512 || tl[1] != 1 || tl[6] != 0 || tl[7] != 0 {
		t.Errorf("canvas top-left = %v", tl)
	}
	br := o.Canvas[4*TexturedStride : 5*TexturedStride]
	if br[0] != 1 || br[1] != -1 || br[6] != 1 || br[7] != 1 {
		t.Errorf("canvas bottom-right = %v", br)
	}
}

func TestWindowRoundTrip(t *testing.T) {
	w := Window{Width: 800, Height: 600}

	tests := []struct{ x, y float64 }{
		{0, 0}, {400, 300}, {800, 600}, {123.5, 77.25},
	}
	for _, tt := range tests {
		nx, ny := w.NDC(tt.x, tt.y)
		x, y := w.Pixel(nx, ny)
		if math.Abs(x-tt.x) > 1e-3 || math.Abs(y-tt.y) > 1e-3 {
			t.Errorf("round trip (%v,%v) -> (%v,%v)", tt.x, tt.y, x, y)
		}
	}

	if nx, ny := w.NDC(400, 300); nx != 0 || ny != 0 {
		t.Errorf("center NDC = (%v,%v), want origin", nx, ny)
	}
}
