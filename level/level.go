// Package level holds the tile map walked by the ray caster.
package level

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // register PNG for Decode
	"io"
	"strings"
)

type Cell uint8

const (
	Empty Cell = iota
	Wall
)

// Pixel colors understood by Decode.
var (
	ColorEmpty = color.RGBA{255, 255, 255, 255}
	ColorWall  = color.RGBA{0, 0, 0, 255}
	ColorSpawn = color.RGBA{0, 0, 255, 255}
)

// ErrMalformed is returned for empty, ragged or otherwise unusable grids.
var ErrMalformed = errors.New("malformed level")

// Level is a fixed grid of cells stored row-major, so the (col,row) view and
// the flattened row*width+col view always agree.
type Level struct {
	width, height int
	cells         []Cell

	spawnCol, spawnRow int
	hasSpawn           bool
}

// New builds a level from rows of cells. All rows must have the same length.
func New(rows [][]Cell) (*Level, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: no cells", ErrMalformed)
	}

	l := &Level{
		width:  len(rows[0]),
		height: len(rows),
		cells:  make([]Cell, 0, len(rows)*len(rows[0])),
	}
	for y, row := range rows {
		if len(row) != l.width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformed, y, len(row), l.width)
		}
		for x, c := range row {
			if c != Empty && c != Wall {
				return nil, fmt.Errorf("%w: cell (%d,%d) has value %d", ErrMalformed, x, y, c)
			}
		}
		l.cells = append(l.cells, row...)
	}

	return l, nil
}

// Parse reads a level from text rows. '#' or '1' is a wall, '.', '0' or ' '
// is empty and 'P' marks an empty spawn cell.
func Parse(rows []string) (*Level, error) {
	grid := make([][]Cell, len(rows))
	spawnCol, spawnRow, hasSpawn := 0, 0, false

	for y, line := range rows {
		grid[y] = make([]Cell, 0, len(line))
		for x, r := range line {
			switch r {
			case '#', '1':
				grid[y] = append(grid[y], Wall)
			case '.', '0', ' ':
				grid[y] = append(grid[y], Empty)
			case 'P', 'p':
				grid[y] = append(grid[y], Empty)
				spawnCol, spawnRow, hasSpawn = x, y, true
			default:
				return nil, fmt.Errorf("%w: unexpected %q at (%d,%d)", ErrMalformed, r, x, y)
			}
		}
	}

	l, err := New(grid)
	if err != nil {
		return nil, err
	}
	l.spawnCol, l.spawnRow, l.hasSpawn = spawnCol, spawnRow, hasSpawn

	return l, nil
}

// Decode reads a level from an image where each pixel is one cell.
// Black pixels are walls, white are empty and blue marks the spawn cell.
// Any other color is rejected.
func Decode(r io.Reader) (*Level, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode level image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	grid := make([][]Cell, height)
	for i := range grid {
		grid[i] = make([]Cell, width)
	}

	spawnCol, spawnRow, hasSpawn := 0, 0, false

	// fill grid based on pixel colors
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)

			switch c {
			case ColorWall:
				grid[y][x] = Wall
			case ColorEmpty:
			case ColorSpawn:
				spawnCol, spawnRow, hasSpawn = x, y, true
			default:
				return nil, fmt.Errorf("%w: unexpected color %v at (%d,%d)", ErrMalformed, c, x, y)
			}
		}
	}

	l, err := New(grid)
	if err != nil {
		return nil, err
	}
	l.spawnCol, l.spawnRow, l.hasSpawn = spawnCol, spawnRow, hasSpawn

	return l, nil
}

func (l *Level) Width() int  { return l.width }
func (l *Level) Height() int { return l.height }

// InBounds reports whether (col,row) addresses a cell.
func (l *Level) InBounds(col, row int) bool {
	return col >= 0 && col < l.width && row >= 0 && row < l.height
}

// Index flattens (col,row) into row*width+col.
func (l *Level) Index(col, row int) int {
	return row*l.width + col
}

// At returns the cell at (col,row). Cells outside the grid read as Empty.
func (l *Level) At(col, row int) Cell {
	if !l.InBounds(col, row) {
		return Empty
	}
	return l.cells[l.Index(col, row)]
}

// AtIndex looks up a flattened index, reporting false when it is out of range.
func (l *Level) AtIndex(i int) (Cell, bool) {
	if i < 0 || i >= len(l.cells) {
		return Empty, false
	}
	return l.cells[i], true
}

func (l *Level) IsWall(col, row int) bool {
	return l.At(col, row) == Wall
}

// Flat returns a copy of the flattened cell array.
func (l *Level) Flat() []Cell {
	out := make([]Cell, len(l.cells))
	copy(out, l.cells)
	return out
}

// Rows returns a copy of the grid as rows of cells.
func (l *Level) Rows() [][]Cell {
	rows := make([][]Cell, l.height)
	for y := range rows {
		rows[y] = make([]Cell, l.width)
		copy(rows[y], l.cells[y*l.width:(y+1)*l.width])
	}
	return rows
}

// Spawn returns the spawn cell marked in the source, if any.
func (l *Level) Spawn() (col, row int, ok bool) {
	return l.spawnCol, l.spawnRow, l.hasSpawn
}

// Enclosed reports whether every boundary cell is a wall.
func (l *Level) Enclosed() bool {
	for x := 0; x < l.width; x++ {
		if !l.IsWall(x, 0) || !l.IsWall(x, l.height-1) {
			return false
		}
	}
	for y := 0; y < l.height; y++ {
		if !l.IsWall(0, y) || !l.IsWall(l.width-1, y) {
			return false
		}
	}
	return true
}

func (l *Level) String() string {
	var sb strings.Builder
	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			if l.IsWall(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
