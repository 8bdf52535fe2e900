package rules

import (
	"fmt"

	"github.com/brensch/termsnake/game"
)

const (
	MoveUp    = 0
	MoveDown  = 1
	MoveLeft  = 2
	MoveRight = 3
)

// PointsPerSegment is the score awarded for every body segment.
const PointsPerSegment = 100

// Phase is the round state machine. The only transition is Playing -> GameOver.
type Phase int

const (
	Playing Phase = iota
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Outcome describes what one pass of the rules did.
type Outcome struct {
	Ate   bool
	Phase Phase
	Cause game.Cause
}

// Delta returns the (dx, dy) offset for a move in screen coordinates
// (Up decreases Y).
func Delta(move int) (dx, dy int) {
	switch move {
	case MoveUp:
		return 0, -1
	case MoveDown:
		return 0, 1
	case MoveLeft:
		return -1, 0
	case MoveRight:
		return 1, 0
	}
	return 0, 0
}

// PhaseOf returns the phase the state is in.
func PhaseOf(state *game.State) Phase {
	if state.Over {
		return GameOver
	}
	return Playing
}

// Apply runs consumption, wall collision and self collision against the
// current head, in that order. The move that caused a collision is not
// rolled back. A state that is already over is left untouched.
func Apply(state *game.State) (Outcome, error) {
	if state.Over {
		return Outcome{Phase: GameOver, Cause: state.Cause}, nil
	}

	out := Outcome{Phase: Playing}
	head := state.Snake.Head()

	// 1. Consumption
	if state.Food.ConsumeAt(head) {
		if err := state.Snake.Grow(); err != nil {
			return out, fmt.Errorf("eat at (%d,%d): %w", head.X, head.Y, err)
		}
		out.Ate = true
	}

	// 2. Wall collision
	if HitsWall(state) {
		state.End(game.CauseWall)
	} else if HitsSelf(state) {
		// 3. Self collision
		state.End(game.CauseSelf)
	}

	out.Phase = PhaseOf(state)
	out.Cause = state.Cause
	return out, nil
}

// HitsWall reports whether the head lies on the border ring or off the board.
func HitsWall(state *game.State) bool {
	head := state.Snake.Head()
	return !state.Grid.InBounds(head) || state.Grid.IsBorder(head)
}

// HitsSelf reports whether the head shares a cell with any other segment.
func HitsSelf(state *game.State) bool {
	s := state.Snake
	head := s.Head()
	for i := 1; i < s.Len(); i++ {
		if s.Segment(i) == head {
			return true
		}
	}
	return false
}

// Score is the length-derived score shown to the player.
func Score(state *game.State) int {
	return state.Snake.Len() * PointsPerSegment
}
