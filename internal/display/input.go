package display

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

func (g *Game) handleInput() {
	// if p, pause game
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}

	// if escape, exit game
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		g.quit = true
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.showOverlay = !g.showOverlay
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.setFullscreen(!g.fullscreen)
	}

	if g.paused {
		return
	}

	lvl := g.pipeline.Level()

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		g.player.TurnLeft()
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		g.player.TurnRight()
	}

	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		g.player.Forward(lvl, g.cellSize)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		g.player.Backward(lvl, g.cellSize)
	}
}
