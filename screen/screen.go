// Package screen renders frames on a tcell screen and reads keys from it.
// It implements both session.Renderer and input.KeySource, so one Screen
// drives a session.Loop on its own.
package screen

import (
	"context"
	"io"

	"github.com/brensch/termsnake/game"
	"github.com/brensch/termsnake/input"
	"github.com/brensch/termsnake/session"
	"github.com/gdamore/tcell/v2"
)

var (
	_ session.Renderer = (*Screen)(nil)
	_ input.KeySource  = (*Screen)(nil)
)

type Screen struct {
	s      tcell.Screen
	status tcell.Style
	cells  map[rune]tcell.Style
}

// New initialises the real terminal screen. Call Close to restore the terminal.
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return Wrap(s), nil
}

// Wrap uses an already initialised tcell screen.
func Wrap(s tcell.Screen) *Screen {
	s.HideCursor()
	return &Screen{
		s:      s,
		status: tcell.StyleDefault.Bold(true),
		cells: map[rune]tcell.Style{
			rune(game.CellWall): tcell.StyleDefault.Foreground(tcell.ColorGray),
			rune(game.CellBody): tcell.StyleDefault.Foreground(tcell.ColorGreen),
			rune(game.CellHead): tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true),
			rune(game.CellFood): tcell.StyleDefault.Foreground(tcell.ColorRed),
		},
	}
}

// Render clears the screen and paints the status line with the board below it.
func (sc *Screen) Render(f session.Frame) error {
	sc.s.Clear()
	sc.putString(0, 0, f.Status, sc.status)
	for y, row := range f.Rows {
		x := 0
		for _, c := range row {
			st, ok := sc.cells[c]
			if !ok {
				st = tcell.StyleDefault
			}
			sc.s.SetContent(x, y+1, c, nil, st)
			x++
		}
	}
	sc.s.Show()
	return nil
}

// NextKey blocks until a key event arrives. Keys without a rune come back as
// 0, except Ctrl-C and Esc which come back as their control codes. A
// finalised screen reports io.EOF. Cancelling ctx wakes a blocked poll.
func (sc *Screen) NextKey(ctx context.Context) (rune, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = sc.s.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		switch ev := sc.s.PollEvent().(type) {
		case nil:
			return 0, io.EOF
		case *tcell.EventInterrupt:
			// Stale interrupts from an earlier call fall through to the
			// ctx check at the top of the loop.
			continue
		case *tcell.EventResize:
			sc.s.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyRune:
				if ev.Modifiers()&tcell.ModCtrl != 0 && (ev.Rune() == 'c' || ev.Rune() == 'C') {
					return 0x03, nil
				}
				return ev.Rune(), nil
			case tcell.KeyCtrlC:
				return 0x03, nil
			case tcell.KeyEscape:
				return 0x1b, nil
			default:
				return 0, nil
			}
		}
	}
}

// Close restores the terminal.
func (sc *Screen) Close() {
	sc.s.Fini()
}

func (sc *Screen) putString(x, y int, s string, st tcell.Style) {
	for _, r := range s {
		sc.s.SetContent(x, y, r, nil, st)
		x++
	}
}
