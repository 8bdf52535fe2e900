// Package session runs one round of the game: it owns the state, advances it
// one tick at a time and hands each tick's frame to a Renderer.
//
// A Session is strictly turn-based. Tick mutates and projects the state,
// Apply feeds in the next command, and nothing else touches the state in
// between. It is not safe for concurrent use.
package session

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/brensch/termsnake/game"
	"github.com/brensch/termsnake/input"
	"github.com/brensch/termsnake/rules"
	"github.com/google/uuid"
)

// Config controls round setup. Seed 0 seeds from the clock.
type Config struct {
	Seed      int64
	FoodCount int
	MaxLength int
}

// DefaultConfig matches the classic board: 50 food items, 256 segments.
var DefaultConfig = Config{FoodCount: game.DefaultFoodCount, MaxLength: game.DefaultMaxLength}

// Result summarises a finished (or aborted) round.
type Result struct {
	RoundID string
	Seed    int64
	Score   int
	Length  int
	Turns   int
	Cause   game.Cause
}

type Session struct {
	id    string
	seed  int64
	state *game.State
	log   *slog.Logger
}

// New builds a round: a fresh grid, a spawned snake and a populated food set.
func New(cfg Config, logger *slog.Logger) *Session {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	state := game.NewState(cfg.FoodCount, cfg.MaxLength)
	state.Snake.Spawn(rng)
	state.Food.Populate(rng)

	s := NewWithState(state, logger)
	s.seed = seed
	s.log = s.log.With("seed", seed)
	s.log.Info("round started",
		"food", cfg.FoodCount,
		"max_length", cfg.MaxLength,
		"head_x", state.Snake.Head().X,
		"head_y", state.Snake.Head().Y,
	)
	return s
}

// NewWithState wraps an already prepared state, e.g. a fixed test board.
func NewWithState(state *game.State, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.NewString()
	return &Session{
		id:    id,
		state: state,
		log:   logger.With("round", id),
	}
}

func (s *Session) ID() string  { return s.id }
func (s *Session) Over() bool  { return s.state.Over }
func (s *Session) Score() int  { return rules.Score(s.state) }
func (s *Session) Turn() int   { return s.state.Turn }
func (s *Session) Seed() int64 { return s.seed }

// State returns a deep copy of the current state.
func (s *Session) State() *game.State { return s.state.Clone() }

// Tick rebuilds the grid, runs the rules and returns the frame to show.
func (s *Session) Tick() (Frame, error) {
	st := s.state
	st.Grid.Reset()
	if err := st.Food.Render(st.Grid); err != nil {
		return Frame{}, fmt.Errorf("turn %d: render food: %w", st.Turn, err)
	}
	if err := st.Snake.Render(st.Grid); err != nil {
		return Frame{}, fmt.Errorf("turn %d: render snake: %w", st.Turn, err)
	}

	out, err := rules.Apply(st)
	if err != nil {
		s.log.Error("rules failed", "turn", st.Turn, "err", err)
		return Frame{}, fmt.Errorf("turn %d: %w", st.Turn, err)
	}
	if out.Ate {
		s.log.Debug("food eaten",
			"turn", st.Turn,
			"length", st.Snake.Len(),
			"food_left", st.Food.Remaining(),
		)
	}
	if out.Phase == rules.GameOver {
		s.logEnd()
	}

	return s.frame(), nil
}

// Apply feeds one command into the round. Quit ends it; moves advance the
// snake for the next tick. Commands after the round is over are dropped.
func (s *Session) Apply(cmd input.Command) {
	if s.state.Over {
		return
	}
	if cmd == input.Quit {
		s.state.End(game.CauseQuit)
		s.logEnd()
		return
	}
	move, ok := cmd.Move()
	if !ok {
		return
	}
	dx, dy := rules.Delta(move)
	s.state.Snake.Advance(dx, dy)
	s.state.Turn++
}

func (s *Session) Result() Result {
	return Result{
		RoundID: s.id,
		Seed:    s.seed,
		Score:   s.Score(),
		Length:  s.state.Snake.Len(),
		Turns:   s.state.Turn,
		Cause:   s.state.Cause,
	}
}

func (s *Session) logEnd() {
	s.log.Info("round over",
		"cause", string(s.state.Cause),
		"score", s.Score(),
		"length", s.state.Snake.Len(),
		"turns", s.state.Turn,
	)
}

func (s *Session) frame() Frame {
	st := s.state
	return Frame{
		RoundID: s.id,
		Turn:    st.Turn,
		Rows:    st.Grid.Rows(),
		Status:  StatusLine(s.Score()),
		Score:   s.Score(),
		Length:  st.Snake.Len(),
		Over:    st.Over,
		Cause:   string(st.Cause),
	}
}
