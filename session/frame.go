package session

import (
	"fmt"
	"strings"
)

// Frame is an immutable snapshot of one tick: the full grid plus the status
// line. Renderers receive frames by value and may keep them.
type Frame struct {
	RoundID string   `json:"round_id"`
	Turn    int      `json:"turn"`
	Rows    []string `json:"rows"`
	Status  string   `json:"status"`
	Score   int      `json:"score"`
	Length  int      `json:"length"`
	Over    bool     `json:"over"`
	Cause   string   `json:"cause,omitempty"`
}

// StatusLine is the line printed above the board every tick.
func StatusLine(score int) string {
	return fmt.Sprintf("Snake Game, Score: %d", score)
}

// FinalLine is printed once the round has ended.
func FinalLine(score int) string {
	return fmt.Sprintf("Game Over!, Final Score: %d", score)
}

// String renders the status line followed by the board rows.
func (f Frame) String() string {
	var sb strings.Builder
	sb.WriteString(f.Status)
	sb.WriteByte('\n')
	for _, row := range f.Rows {
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Renderer paints a frame. Each call replaces whatever was painted before.
type Renderer interface {
	Render(Frame) error
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(Frame) error

func (f RendererFunc) Render(fr Frame) error { return f(fr) }

type multiRenderer []Renderer

// MultiRenderer fans a frame out to every non-nil renderer in order and
// stops at the first error.
func MultiRenderer(rs ...Renderer) Renderer {
	out := make(multiRenderer, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m multiRenderer) Render(f Frame) error {
	for _, r := range m {
		if err := r.Render(f); err != nil {
			return err
		}
	}
	return nil
}
