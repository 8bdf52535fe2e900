package session

import (
	"context"
	"fmt"

	"github.com/brensch/termsnake/input"
)

// Loop drives a session synchronously: tick, render, then block for the
// next command. The key read is the only place it waits.
type Loop struct {
	session *Session
	keys    *input.Adapter
	sink    Renderer
}

func NewLoop(s *Session, src input.KeySource, sink Renderer) *Loop {
	return &Loop{
		session: s,
		keys:    input.NewAdapter(src),
		sink:    sink,
	}
}

// Run plays until the round ends. Collisions and Quit are normal endings;
// an error means the round was aborted by a fatal state error, a renderer
// or the key source.
func (l *Loop) Run(ctx context.Context) (Result, error) {
	s := l.session
	for !s.Over() {
		frame, err := s.Tick()
		if err != nil {
			return s.Result(), err
		}
		if err := l.sink.Render(frame); err != nil {
			return s.Result(), fmt.Errorf("render turn %d: %w", frame.Turn, err)
		}
		if s.Over() {
			break
		}

		cmd, err := l.keys.Next(ctx)
		if err != nil {
			return s.Result(), err
		}
		s.Apply(cmd)
	}
	return s.Result(), nil
}
