package model

import (
	"fmt"
	"math"

	"github.com/jinzhu/copier"

	"gridcaster/engine"
	"gridcaster/level"
)

const (
	DefaultSize      = 8.0
	DefaultSpeed     = 1.1
	DefaultTurnSpeed = 0.03

	// snapGap keeps a snapped player just off the wall edge it hit.
	snapGap = 0.01
)

type Player struct {
	X, Y       float64
	Dir        float64
	DirX, DirY float64
	Size       float64
	Speed      float64
	TurnSpeed  float64
	Moved      bool
}

func NewPlayer(x, y, dir float64) *Player {
	p := &Player{
		X:         x,
		Y:         y,
		Size:      DefaultSize,
		Speed:     DefaultSpeed,
		TurnSpeed: DefaultTurnSpeed,
	}
	p.SetDir(dir)

	return p
}

// SetDir sets the facing angle, wrapped into [0, 2π), and refreshes the unit
// direction.
func (p *Player) SetDir(dir float64) {
	p.Dir = engine.NormalizeAngle(dir)
	p.DirX = math.Cos(p.Dir)
	p.DirY = math.Sin(p.Dir)
}

func (p *Player) Rotate(delta float64) {
	p.SetDir(p.Dir + delta)
	p.Moved = true
}

func (p *Player) TurnLeft()  { p.Rotate(-p.TurnSpeed) }
func (p *Player) TurnRight() { p.Rotate(p.TurnSpeed) }

func (p *Player) Forward(lvl *level.Level, cellSize float64) {
	p.Move(lvl, cellSize, p.DirX*p.Speed, p.DirY*p.Speed)
}

func (p *Player) Backward(lvl *level.Level, cellSize float64) {
	p.Move(lvl, cellSize, -p.DirX*p.Speed, -p.DirY*p.Speed)
}

// Move tries to displace the player by (dx, dy). A destination outside the
// map is refused. A destination inside a wall snaps each blocked axis to the
// edge of that wall cell.
func (p *Player) Move(lvl *level.Level, cellSize, dx, dy float64) {
	newX, newY := p.X+dx, p.Y+dy

	// probe the leading edge of the player's square on positive axes
	probeX, probeY := newX, newY
	if dx > 0 {
		probeX += p.Size
	}
	if dy > 0 {
		probeY += p.Size
	}
	if probeX < 0 || probeY < 0 {
		return
	}
	cellX, cellY := int(probeX/cellSize), int(probeY/cellSize)
	if !lvl.InBounds(cellX, cellY) {
		return
	}

	if lvl.IsWall(cellX, cellY) {
		curX, curY := int(p.X/cellSize), int(p.Y/cellSize)

		if lvl.IsWall(cellX, curY) {
			switch {
			case dx > 0:
				newX = float64(cellX)*cellSize - (p.Size + snapGap)
			case dx < 0:
				newX = float64(cellX+1)*cellSize + snapGap
			default:
				newX = p.X
			}
		}
		if lvl.IsWall(curX, cellY) {
			switch {
			case dy > 0:
				newY = float64(cellY)*cellSize - (p.Size + snapGap)
			case dy < 0:
				newY = float64(cellY+1)*cellSize + snapGap
			default:
				newY = p.Y
			}
		}
	}

	if newX != p.X || newY != p.Y {
		p.X, p.Y = newX, newY
		p.Moved = true
	}
}

// Snapshot copies the fields the caster reads into a fresh viewpoint.
func (p *Player) Snapshot() (engine.Viewpoint, error) {
	var vp engine.Viewpoint
	if err := copier.Copy(&vp, p); err != nil {
		return engine.Viewpoint{}, fmt.Errorf("snapshot player: %w", err)
	}
	return vp, nil
}
