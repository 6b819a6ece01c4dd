// Package terminal shows the pixel buffer in a terminal using tcell, two
// pixel rows per character cell.
package terminal

import (
	"github.com/gdamore/tcell/v2"

	"gridcaster/engine"
)

// upperHalf is drawn with the top pixel as foreground and the bottom pixel
// as background.
const upperHalf = '▀'

// Uploader scales a pixel buffer onto the whole screen.
type Uploader struct {
	screen tcell.Screen
}

func NewUploader(screen tcell.Screen) *Uploader {
	return &Uploader{screen: screen}
}

func (u *Uploader) Upload(buf *engine.PixelBuffer) error {
	cols, rows := u.screen.Size()
	if cols <= 0 || rows <= 0 {
		return nil
	}

	for y := 0; y < rows; y++ {
		top, bottom := pixelRows(y, rows, buf.Height())
		for x := 0; x < cols; x++ {
			px := x * buf.Width() / cols
			style := tcell.StyleDefault.
				Foreground(rgbColor(buf.RGBAt(px, top))).
				Background(rgbColor(buf.RGBAt(px, bottom)))
			u.screen.SetContent(x, y, upperHalf, nil, style)
		}
	}

	u.screen.Show()
	return nil
}

// pixelRows returns the buffer rows shown in the top and bottom half of
// screen row y.
func pixelRows(y, rows, height int) (top, bottom int) {
	half := 2 * rows
	return 2 * y * height / half, (2*y + 1) * height / half
}

func rgbColor(c engine.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c[0]), int32(c[1]), int32(c[2]))
}
