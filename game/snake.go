package game

import (
	"fmt"
	"math/rand"
)

// Snake is an ordered body with the head at index 0. The backing slice is
// allocated once at its full capacity; only the first length segments are
// part of the body.
type Snake struct {
	width  int
	height int
	length int
	body   []Point
}

func NewSnake(width, height, capacity int) *Snake {
	if capacity < 1 {
		capacity = 1
	}
	return &Snake{
		width:  width,
		height: height,
		length: 1,
		body:   make([]Point, capacity),
	}
}

// Spawn resets the snake to a single segment at a random interior position.
func (s *Snake) Spawn(rng *rand.Rand) {
	s.SpawnAt(randomInterior(rng, s.width, s.height))
}

// SpawnAt resets the snake to a single segment at p.
func (s *Snake) SpawnAt(p Point) {
	s.length = 1
	s.body[0] = p
}

func (s *Snake) Len() int    { return s.length }
func (s *Snake) Cap() int    { return len(s.body) }
func (s *Snake) Head() Point { return s.body[0] }

// Segment returns body segment i. i must be below Len.
func (s *Snake) Segment(i int) Point { return s.body[i] }

// Segments returns a copy of the logical body, head first.
func (s *Snake) Segments() []Point {
	out := make([]Point, s.length)
	copy(out, s.body[:s.length])
	return out
}

// Advance moves every segment onto its predecessor and then offsets the head.
// Bounds and collisions are left to the rules engine.
func (s *Snake) Advance(dx, dy int) {
	for i := s.length - 1; i > 0; i-- {
		s.body[i] = s.body[i-1]
	}
	s.body[0] = s.body[0].Add(dx, dy)
}

// Grow adds one segment. The new tail slot is filled from its predecessor on
// the next Advance; until then it holds the unused zero slot, which is a wall
// cell and so never matches a live head.
func (s *Snake) Grow() error {
	if s.length >= len(s.body) {
		return fmt.Errorf("grow past %d segments: %w", len(s.body), ErrCapacityExceeded)
	}
	s.length++
	return nil
}

// Render stamps the body and then the head, so the head wins on overlap.
func (s *Snake) Render(g *Grid) error {
	for i := s.length - 1; i > 0; i-- {
		if err := g.Stamp(s.body[i], CellBody); err != nil {
			return err
		}
	}
	return g.Stamp(s.body[0], CellHead)
}

// Place sets the body to the given segments, head first.
// Used to set up fixed boards.
func (s *Snake) Place(segments ...Point) error {
	if len(segments) == 0 {
		return fmt.Errorf("place empty snake")
	}
	if len(segments) > len(s.body) {
		return fmt.Errorf("place %d segments: %w", len(segments), ErrCapacityExceeded)
	}
	copy(s.body, segments)
	s.length = len(segments)
	return nil
}
