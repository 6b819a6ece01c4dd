package engine

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultMaxProbeDepth caps how many grid lines a single march crosses.
	// It bounds the cost of every ray and doubles as the "ray escaped the
	// visible range" sentinel: a march that reaches it stops where it is.
	DefaultMaxProbeDepth = 8

	// snapEpsilon pushes grid-snapped samples strictly into the neighboring
	// cell so floor() picks an unambiguous owner.
	snapEpsilon = 1e-4

	// minDistance keeps the projection away from a division by zero.
	minDistance = 1e-4
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid engine config")

// RGB is one pixel, one byte per channel.
type RGB [3]uint8

// Palette holds the three colors used by the projector.
type Palette struct {
	Horizontal RGB // walls found by the horizontal-line march
	Vertical   RGB // walls found by the vertical-line march
	Background RGB // ceiling and floor
}

// Config carries the tunables shared by the caster, projector and overlay.
// Map dimensions come from the level itself.
type Config struct {
	CellSize        float64 // world units per cell edge
	Rays            int
	RenderWidth     int
	RenderHeight    int
	FOV             float64 // radians
	WallScale       float64 // world wall height scale applied to the projection
	CollisionRadius float64 // offset from the player's position to the ray origin
	MaxProbeDepth   int
	Palette         Palette
}

func DefaultConfig() Config {
	return Config{
		CellSize:        64,
		Rays:            60,
		RenderWidth:     60,
		RenderHeight:    60,
		FOV:             math.Pi / 3,
		WallScale:       20,
		CollisionRadius: 4,
		MaxProbeDepth:   DefaultMaxProbeDepth,
		Palette: Palette{
			Horizontal: RGB{120, 120, 120},
			Vertical:   RGB{80, 80, 80},
			Background: RGB{30, 30, 60},
		},
	}
}

func (c Config) Validate() error {
	switch {
	case !(c.CellSize > 0):
		return fmt.Errorf("%w: cell size %v must be positive", ErrInvalidConfig, c.CellSize)
	case c.Rays <= 0:
		return fmt.Errorf("%w: ray count %d must be positive", ErrInvalidConfig, c.Rays)
	case c.RenderWidth <= 0 || c.RenderHeight <= 0:
		return fmt.Errorf("%w: render size %dx%d must be positive", ErrInvalidConfig, c.RenderWidth, c.RenderHeight)
	case !(c.FOV > 0 && c.FOV < math.Pi):
		return fmt.Errorf("%w: fov %v must be in (0, pi)", ErrInvalidConfig, c.FOV)
	case !(c.WallScale > 0):
		return fmt.Errorf("%w: wall scale %v must be positive", ErrInvalidConfig, c.WallScale)
	case c.CollisionRadius < 0 || c.CollisionRadius >= c.CellSize:
		return fmt.Errorf("%w: collision radius %v must be in [0, cell size)", ErrInvalidConfig, c.CollisionRadius)
	case c.MaxProbeDepth <= 0:
		return fmt.Errorf("%w: max probe depth %d must be positive", ErrInvalidConfig, c.MaxProbeDepth)
	}
	return nil
}
