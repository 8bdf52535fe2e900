package game

import (
	"fmt"
	"strings"
)

// Cell is the display symbol held by one grid cell.
type Cell rune

const (
	CellEmpty Cell = ' '
	CellWall  Cell = '#'
	CellBody  Cell = '*'
	CellHead  Cell = '@'
	CellFood  Cell = 'o'
)

// Grid is a fixed-size board of display symbols, stored row-major
// (index = y*width + x). It is rebuilt from scratch every tick.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

func NewGrid(width, height int) *Grid {
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	g.Reset()
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether p lies on the board.
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// IsBorder reports whether p lies on the wall ring.
func (g *Grid) IsBorder(p Point) bool {
	return p.X == 0 || p.X == g.width-1 || p.Y == 0 || p.Y == g.height-1
}

// Reset clears the interior and redraws the wall ring.
func (g *Grid) Reset() {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := CellEmpty
			if x == 0 || x == g.width-1 || y == 0 || y == g.height-1 {
				c = CellWall
			}
			g.cells[y*g.width+x] = c
		}
	}
}

// Stamp overwrites the cell at p.
func (g *Grid) Stamp(p Point, c Cell) error {
	if !g.InBounds(p) {
		return fmt.Errorf("stamp %q at (%d,%d) on %dx%d grid: %w", rune(c), p.X, p.Y, g.width, g.height, ErrOutOfBounds)
	}
	g.cells[p.Y*g.width+p.X] = c
	return nil
}

// At returns the cell at p, or CellEmpty when p is off the board.
func (g *Grid) At(p Point) Cell {
	if !g.InBounds(p) {
		return CellEmpty
	}
	return g.cells[p.Y*g.width+p.X]
}

// Rows returns the grid as one string per row, top to bottom.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		sb.Reset()
		for x := 0; x < g.width; x++ {
			sb.WriteRune(rune(g.cells[y*g.width+x]))
		}
		rows[y] = sb.String()
	}
	return rows
}

func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n") + "\n"
}
