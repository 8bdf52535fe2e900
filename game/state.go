// Package game defines the core state types for a single-player terminal
// snake round.
//
// These types hold everything the rules engine and the renderers need. The
// grid is a projection rebuilt every tick; the snake and the food set are the
// authoritative state.
package game

import "errors"

const (
	BoardWidth  = 25
	BoardHeight = 25

	DefaultFoodCount = 50
	DefaultMaxLength = 256

	// InteriorCells is the number of cells inside the wall ring. No snake can
	// usefully grow past it, and it also bounds the food count.
	InteriorCells = (BoardWidth - 2) * (BoardHeight - 2)
)

var (
	// ErrOutOfBounds is returned when something tries to stamp a cell off the board.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrCapacityExceeded is returned when the snake would grow past its fixed capacity.
	ErrCapacityExceeded = errors.New("snake capacity exceeded")
)

// Point is a board coordinate.
// (0,0) is top-left; Y grows downward like terminal rows.
type Point struct {
	X int
	Y int
}

// Add returns p offset by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Cause records why a round ended.
type Cause string

const (
	CauseNone Cause = ""
	CauseWall Cause = "wall"
	CauseSelf Cause = "self"
	CauseQuit Cause = "quit"
)

// State is the complete state of one round.
// Over is set once and never cleared.
type State struct {
	Grid  *Grid
	Snake *Snake
	Food  *FoodSet
	Over  bool
	Cause Cause
	Turn  int
}

// NewState allocates a standard 25x25 round with the given food count and
// snake capacity. The snake and food still need Spawn and Populate.
func NewState(foodCount, maxLength int) *State {
	return &State{
		Grid:  NewGrid(BoardWidth, BoardHeight),
		Snake: NewSnake(BoardWidth, BoardHeight, maxLength),
		Food:  NewFoodSet(BoardWidth, BoardHeight, foodCount),
	}
}

// End marks the round as over. Only the first cause is kept.
func (s *State) End(cause Cause) {
	if s.Over {
		return
	}
	s.Over = true
	s.Cause = cause
}

// Clone performs a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	out := &State{
		Over:  s.Over,
		Cause: s.Cause,
		Turn:  s.Turn,
	}

	if s.Grid != nil {
		g := *s.Grid
		g.cells = make([]Cell, len(s.Grid.cells))
		copy(g.cells, s.Grid.cells)
		out.Grid = &g
	}

	if s.Snake != nil {
		sn := *s.Snake
		sn.body = make([]Point, len(s.Snake.body))
		copy(sn.body, s.Snake.body)
		out.Snake = &sn
	}

	if s.Food != nil {
		f := *s.Food
		f.items = make([]Food, len(s.Food.items))
		copy(f.items, s.Food.items)
		out.Food = &f
	}

	return out
}
