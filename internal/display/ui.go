package display

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"gridcaster/engine"
)

func (g *Game) drawUI(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, hudText(ebiten.ActualFPS(), ebiten.ActualTPS(), g.vp, g.pipeline.Frames(), g.paused))

	ebitenutil.DebugPrintAt(screen, "move with WASD or arrows, P to pause", 10, g.screenHeight-60)
	ebitenutil.DebugPrintAt(screen, "TAB toggles the map overlay, F fullscreen", 10, g.screenHeight-40)
	ebitenutil.DebugPrintAt(screen, "ESC to exit", 10, g.screenHeight-20)
}

func hudText(fps, tps float64, vp engine.Viewpoint, frames uint64, paused bool) string {
	s := fmt.Sprintf("FPS: %0.2f\nTPS: %0.2f\npos: %0.1f, %0.1f  dir: %0.2f\nframes: %d",
		fps, tps, vp.X, vp.Y, vp.Dir, frames)
	if paused {
		s += "\nPAUSED"
	}
	return s
}
