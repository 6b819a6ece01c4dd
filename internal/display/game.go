// Package display runs the pipeline in an ebiten window.
package display

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"gridcaster/engine"
	"gridcaster/internal/config"
	"gridcaster/internal/logger"
	"gridcaster/model"
)

// main game object
type Game struct {
	paused      bool
	showOverlay bool
	fullscreen  bool
	vsync       bool
	quit        bool

	// window resolution
	screenWidth  int
	screenHeight int

	cellSize float64
	pipeline *engine.Pipeline
	player   *model.Player
	vp       engine.Viewpoint

	//--pixel buffer texture and the overlay drawn over it--//
	frame    *Texture
	renderer *OverlayRenderer

	log *logrus.Entry
}

// NewGame builds the pipeline, the player and the textures described by s.
func NewGame(s *config.Settings) (*Game, error) {
	pipeline, err := engine.NewPipeline(s.Engine, s.Level, s.Window)
	if err != nil {
		return nil, err
	}

	frame := NewTexture(s.Engine.RenderWidth, s.Engine.RenderHeight)

	g := &Game{
		showOverlay: true,
		cellSize:    s.Engine.CellSize,
		pipeline:    pipeline,
		player:      model.NewPlayer(s.Start.X, s.Start.Y, s.Start.Dir),
		frame:       frame,
		renderer:    NewOverlayRenderer(s.Window, frame),
		log:         logger.Component("display"),
	}
	g.player.Size = 2 * s.Engine.CollisionRadius

	g.setResolution(s.Window.Width, s.Window.Height)
	g.setVsyncEnabled(s.VSync)

	// cast the first frame so Draw has something before the first Update
	if err := g.step(); err != nil {
		return nil, err
	}

	g.log.WithFields(logrus.Fields{
		"window": fmt.Sprintf("%dx%d", g.screenWidth, g.screenHeight),
		"x":      g.player.X,
		"y":      g.player.Y,
	}).Info("Game ready.")

	return g, nil
}

// Run is the Ebiten Run loop caller
func (g *Game) Run() error {
	ebiten.SetWindowTitle("gridcaster")

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Layout takes the outside size (e.g., the window size) and returns the (logical) screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenWidth, g.screenHeight
}

// Update is called every tick (1/60 [s] by default).
func (g *Game) Update() error {
	g.handleInput()

	if g.quit {
		g.log.Info("Quit requested.")
		return ebiten.Termination
	}
	if g.paused {
		return nil
	}

	if g.player.Moved {
		g.player.Moved = false
		return g.step()
	}
	return nil
}

// step casts and projects from the player's current position and uploads
// the result.
func (g *Game) step() error {
	vp, err := g.player.Snapshot()
	if err != nil {
		return err
	}
	g.vp = vp

	if _, err := g.pipeline.Step(vp); err != nil {
		return err
	}
	return g.pipeline.Present(g.frame)
}

// Draw is called every frame (typically 1/60[s] for 60Hz display).
func (g *Game) Draw(screen *ebiten.Image) {
	if g.showOverlay {
		g.renderer.Begin(screen)
		g.pipeline.Overlay(g.vp).Render(g.renderer)
	} else {
		// stretch the pixel buffer over the whole window
		op := &ebiten.DrawImageOptions{}
		op.Filter = ebiten.FilterNearest
		op.GeoM.Scale(
			float64(g.screenWidth)/float64(g.frame.Width()),
			float64(g.screenHeight)/float64(g.frame.Height()),
		)
		screen.DrawImage(g.frame.Image(), op)
	}

	g.drawUI(screen)
}

func (g *Game) setFullscreen(fullscreen bool) {
	g.fullscreen = fullscreen
	ebiten.SetFullscreen(fullscreen)
}

func (g *Game) setResolution(screenWidth, screenHeight int) {
	g.screenWidth, g.screenHeight = screenWidth, screenHeight
	ebiten.SetWindowSize(screenWidth, screenHeight)
}

func (g *Game) setVsyncEnabled(enableVsync bool) {
	g.vsync = enableVsync
	ebiten.SetVsyncEnabled(enableVsync)
}
