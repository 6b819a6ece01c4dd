package engine

import (
	"fmt"
	"math"

	"github.com/harbdog/raycaster-go/geom"
)

// Projector turns per-ray distances into wall strips of a pixel buffer.
type Projector struct {
	cfg           Config
	projPlaneDist float64
}

func NewProjector(cfg Config) (*Projector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Projector{
		cfg:           cfg,
		projPlaneDist: float64(cfg.RenderWidth) / 2 / math.Tan(cfg.FOV/2),
	}, nil
}

// RayIndex maps screen column x to the ray that covers it.
func (p *Projector) RayIndex(x int) int {
	i := x * p.cfg.Rays / p.cfg.RenderWidth
	if i < 0 {
		return 0
	}
	if i > p.cfg.Rays-1 {
		return p.cfg.Rays - 1
	}
	return i
}

// ScreenAngle is the angular offset of column x from the view center.
func (p *Projector) ScreenAngle(x int) float64 {
	half := float64(p.cfg.RenderWidth) / 2
	return (float64(x) - half) / half * (p.cfg.FOV / 2)
}

// Correct removes the fisheye distortion from a raw distance seen in column x.
func (p *Projector) Correct(x int, raw float64) float64 {
	return raw * math.Cos(p.ScreenAngle(x))
}

// WallHeight is the projected strip height in pixels for a corrected
// distance, clamped to [0, RenderHeight].
func (p *Projector) WallHeight(dist float64) float64 {
	if dist < minDistance {
		dist = minDistance
	}
	return geom.Clamp(p.cfg.WallScale*p.projPlaneDist/dist, 0, float64(p.cfg.RenderHeight))
}

// Strip describes the wall band of one screen column.
type Strip struct {
	Top, Bottom int
	Family      Family
	Distance    float64 // fisheye corrected
}

// Column computes the strip for screen column x.
func (p *Projector) Column(x int, rays *Rays) Strip {
	i := p.RayIndex(x)
	hDist := math.Max(rays.Horizontal[i], minDistance)
	vDist := math.Max(rays.Vertical[i], minDistance)

	raw, family := vDist, Vertical
	if hDist < vDist {
		raw, family = hDist, Horizontal
	}

	dist := p.Correct(x, raw)
	wallHeight := p.WallHeight(dist)
	screenHeight := float64(p.cfg.RenderHeight)

	return Strip{
		Top:      int(math.Round((screenHeight - wallHeight) / 2)),
		Bottom:   int(math.Round((screenHeight + wallHeight) / 2)),
		Family:   family,
		Distance: dist,
	}
}

// Draw writes every pixel of buf: background above and below each strip,
// the family color inside it.
func (p *Projector) Draw(buf *PixelBuffer, rays *Rays, pal Palette) error {
	if buf.Width() != p.cfg.RenderWidth || buf.Height() != p.cfg.RenderHeight {
		return fmt.Errorf("draw: buffer is %dx%d, want %dx%d",
			buf.Width(), buf.Height(), p.cfg.RenderWidth, p.cfg.RenderHeight)
	}
	if len(rays.Horizontal) != p.cfg.Rays || len(rays.Vertical) != p.cfg.Rays {
		return fmt.Errorf("draw: rays sized %d/%d, want %d", len(rays.Horizontal), len(rays.Vertical), p.cfg.Rays)
	}

	for x := 0; x < p.cfg.RenderWidth; x++ {
		strip := p.Column(x, rays)

		wall := pal.Vertical
		if strip.Family == Horizontal {
			wall = pal.Horizontal
		}

		for y := 0; y < p.cfg.RenderHeight; y++ {
			switch {
			case y < strip.Top:
				buf.Set(x, y, pal.Background) // ceiling
			case y < strip.Bottom:
				buf.Set(x, y, wall)
			default:
				buf.Set(x, y, pal.Background) // floor
			}
		}
	}

	return nil
}
