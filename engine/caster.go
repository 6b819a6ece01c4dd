package engine

import (
	"fmt"
	"math"

	"github.com/harbdog/raycaster-go/geom"
	"github.com/sirupsen/logrus"

	"gridcaster/internal/logger"
	"gridcaster/level"
)

const (
	Pi2         = 2 * math.Pi
	HalfPi      = math.Pi / 2
	ThreeHalfPi = 3 * math.Pi / 2
)

// Family tells which grid-line search produced a hit.
type Family uint8

const (
	Horizontal Family = iota
	Vertical
)

func (f Family) String() string {
	if f == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Viewpoint is the read-only player snapshot a frame is cast from.
type Viewpoint struct {
	X, Y float64
	Dir  float64
}

// Rays holds one frame of caster output, indexed by ray.
type Rays struct {
	Horizontal []float64
	Vertical   []float64

	// final march points of each family, used by the overlay
	HorizontalEnds []geom.Vector2
	VerticalEnds   []geom.Vector2

	Origin geom.Vector2
}

func NewRays(n int) *Rays {
	return &Rays{
		Horizontal:     make([]float64, n),
		Vertical:       make([]float64, n),
		HorizontalEnds: make([]geom.Vector2, n),
		VerticalEnds:   make([]geom.Vector2, n),
	}
}

func (r *Rays) Len() int { return len(r.Horizontal) }

// Distance returns the nearer of the two families for ray i.
// Ties go to the vertical family.
func (r *Rays) Distance(i int) (float64, Family) {
	if r.Horizontal[i] < r.Vertical[i] {
		return r.Horizontal[i], Horizontal
	}
	return r.Vertical[i], Vertical
}

// End returns the march point of the family that won ray i.
func (r *Rays) End(i int) geom.Vector2 {
	if _, f := r.Distance(i); f == Horizontal {
		return r.HorizontalEnds[i]
	}
	return r.VerticalEnds[i]
}

// NormalizeAngle wraps a into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, Pi2)
	if a < 0 {
		a += Pi2
	}
	if a >= Pi2 {
		a = 0
	}
	return a
}

// Caster measures wall distances along a fan of rays by marching across
// horizontal and vertical grid lines separately.
type Caster struct {
	cfg   Config
	lvl   *level.Level
	probe float64
	log   *logrus.Entry
}

func NewCaster(cfg Config, lvl *level.Level) (*Caster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if lvl == nil {
		return nil, fmt.Errorf("%w: nil level", ErrInvalidConfig)
	}

	return &Caster{
		cfg: cfg,
		lvl: lvl,
		// axis-aligned rays never cross their own family's grid lines; the
		// probe lands them as far away as anything on the map can be
		probe: math.Hypot(float64(lvl.Width())*cfg.CellSize, float64(lvl.Height())*cfg.CellSize),
		log:   logger.Component("caster"),
	}, nil
}

// ProbeDistance is the distance recorded for a family skipped on an
// axis-aligned ray. It is the map diagonal rather than a fixed short reach,
// so a skipped family never reports a phantom wall closer than a real one.
func (c *Caster) ProbeDistance() float64 { return c.probe }

// Angle returns the heading of ray i for a viewer facing dir.
func (c *Caster) Angle(dir float64, i int) float64 {
	dr := c.cfg.FOV / float64(c.cfg.Rays)
	return NormalizeAngle(dir + (float64(i)-float64(c.cfg.Rays)/2)*dr)
}

// Cast fills out with one frame of distances.
func (c *Caster) Cast(vp Viewpoint, out *Rays) error {
	if out.Len() != c.cfg.Rays || len(out.Vertical) != c.cfg.Rays {
		return fmt.Errorf("cast: rays sized %d/%d, want %d", len(out.Horizontal), len(out.Vertical), c.cfg.Rays)
	}

	ox, oy := vp.X+c.cfg.CollisionRadius, vp.Y+c.cfg.CollisionRadius
	out.Origin = geom.Vector2{X: ox, Y: oy}

	for i := 0; i < c.cfg.Rays; i++ {
		ra := c.Angle(vp.Dir, i)

		h := c.marchHorizontal(ox, oy, ra)
		out.Horizontal[i] = geom.Distance(ox, oy, h.X, h.Y)
		out.HorizontalEnds[i] = h

		v := c.marchVertical(ox, oy, ra)
		out.Vertical[i] = geom.Distance(ox, oy, v.X, v.Y)
		out.VerticalEnds[i] = v
	}

	return nil
}

// march is the state of one family's search along one ray.
type march struct {
	family Family
	ra     float64
	tan    float64 // aTan or nTan, kept for tracing
	rx, ry float64
	xo, yo float64
	depth  int
}

// marchHorizontal finds the first wall on a horizontal grid line.
func (c *Caster) marchHorizontal(ox, oy, ra float64) geom.Vector2 {
	s := c.cfg.CellSize
	m := march{family: Horizontal, ra: ra, tan: -1 / math.Tan(ra)}

	switch {
	case ra > math.Pi:
		// heading toward -y
		m.ry = math.Floor(oy/s)*s - snapEpsilon
		m.rx = (oy-m.ry)*m.tan + ox - snapEpsilon
		m.yo = -s
		m.xo = -m.yo * m.tan
	case ra > 0 && ra < math.Pi:
		// heading toward +y
		m.ry = math.Floor(oy/s)*s + s
		m.rx = (oy-m.ry)*m.tan + ox + snapEpsilon
		m.yo = s
		m.xo = -m.yo * m.tan
	default:
		// exactly along the x axis
		sign := 1.0
		if ra == math.Pi {
			sign = -1
		}
		m.rx, m.ry = ox+c.probe*sign, oy
		m.depth = c.cfg.MaxProbeDepth
	}

	return c.step(&m)
}

// marchVertical finds the first wall on a vertical grid line.
func (c *Caster) marchVertical(ox, oy, ra float64) geom.Vector2 {
	s := c.cfg.CellSize
	m := march{family: Vertical, ra: ra, tan: -math.Tan(ra)}

	switch {
	case ra > HalfPi && ra < ThreeHalfPi:
		// heading toward -x
		m.rx = math.Floor(ox/s)*s - snapEpsilon
		m.ry = (ox-m.rx)*m.tan + oy
		m.xo = -s
		m.yo = -m.xo * m.tan
	case ra < HalfPi || ra > ThreeHalfPi:
		// heading toward +x
		m.rx = math.Floor(ox/s)*s + s
		m.ry = (ox-m.rx)*m.tan + oy
		m.xo = s
		m.yo = -m.xo * m.tan
	default:
		// exactly along the y axis
		sign := 1.0
		if ra == ThreeHalfPi {
			sign = -1
		}
		m.rx, m.ry = ox, oy+c.probe*sign
		m.depth = c.cfg.MaxProbeDepth
	}

	return c.step(&m)
}

// step advances m one grid line at a time until it enters a wall, leaves the
// map or reaches the probe depth cap.
func (c *Caster) step(m *march) geom.Vector2 {
	s := c.cfg.CellSize
	w, h := float64(c.lvl.Width()), float64(c.lvl.Height())
	mx, my, mp := -1, -1, -1

	for m.depth < c.cfg.MaxProbeDepth {
		fx, fy := math.Floor(m.rx/s), math.Floor(m.ry/s)
		if fx < 0 || fx >= w || fy < 0 || fy >= h {
			break
		}

		mx, my = int(fx), int(fy)
		mp = c.lvl.Index(mx, my)
		if cell, ok := c.lvl.AtIndex(mp); ok && cell == level.Wall {
			break
		}

		m.rx += m.xo
		m.ry += m.yo
		m.depth++
	}

	if c.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		c.log.WithFields(logrus.Fields{
			"family": m.family.String(),
			"mx":     mx,
			"my":     my,
			"mp":     mp,
			"dof":    m.depth,
			"tan":    m.tan,
			"ra":     m.ra,
			"rx":     m.rx,
			"ry":     m.ry,
			"xo":     m.xo,
			"yo":     m.yo,
		}).Trace("ray march")
	}

	return geom.Vector2{X: m.rx, Y: m.ry}
}
