package screen

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brensch/termsnake/game"
	"github.com/brensch/termsnake/session"
	"github.com/gdamore/tcell/v2"
)

func newSim(t *testing.T) (tcell.SimulationScreen, *Screen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	sim.SetSize(40, 30)
	return sim, Wrap(sim)
}

func line(sim tcell.SimulationScreen, y int) string {
	cells, w, _ := sim.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestRender(t *testing.T) {
	sim, sc := newSim(t)
	defer sc.Close()

	f := session.Frame{
		Status: session.StatusLine(100),
		Rows:   []string{"#####", "#@ o#", "#####"},
	}
	if err := sc.Render(f); err != nil {
		t.Fatalf("render: %v", err)
	}

	if got := line(sim, 0); got != "Snake Game, Score: 100" {
		t.Fatalf("status line=%q", got)
	}
	if got := line(sim, 2); got != "#@ o#" {
		t.Fatalf("board row=%q", got)
	}
}

func TestNextKey(t *testing.T) {
	sim, sc := newSim(t)
	defer sc.Close()

	sim.InjectKey(tcell.KeyRune, 'd', tcell.ModNone)
	sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	want := []rune{'d', 0, 0x1b}
	for i, w := range want {
		got, err := sc.NextKey(context.Background())
		if err != nil {
			t.Fatalf("key %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("key %d=%q want=%q", i, got, w)
		}
	}
}

func TestNextKeyCancel(t *testing.T) {
	_, sc := newSim(t)
	defer sc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := sc.NextKey(ctx)
		errc <- err
	}()

	// Let the goroutine block in the poll before cancelling.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err=%v want=%v", err, context.Canceled)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("NextKey still blocked after cancel")
	}
}

func TestNextKeyAfterCancelledCall(t *testing.T) {
	sim, sc := newSim(t)
	defer sc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sc.NextKey(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want=%v", err, context.Canceled)
	}

	// A leftover interrupt must not be mistaken for a key.
	sim.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	got, err := sc.NextKey(context.Background())
	if err != nil {
		t.Fatalf("next key: %v", err)
	}
	if got != 'w' {
		t.Fatalf("key=%q want='w'", got)
	}
}

func TestLoopOnSimulationScreen(t *testing.T) {
	sim, sc := newSim(t)
	defer sc.Close()

	st := game.NewState(0, game.DefaultMaxLength)
	st.Snake.SpawnAt(game.Point{X: 2, Y: 5})
	s := session.NewWithState(st, nil)

	sim.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'A', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)

	res, err := session.NewLoop(s, sc, sc).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Cause != game.CauseWall {
		t.Fatalf("cause=%q want=wall", res.Cause)
	}
	// Row 5 of the board is screen line 6; the head sits on the wall.
	if got := line(sim, 6); !strings.HasPrefix(got, "@") {
		t.Fatalf("line 6=%q", got)
	}
}
