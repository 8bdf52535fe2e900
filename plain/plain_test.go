package plain

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/brensch/termsnake/game"
	"github.com/brensch/termsnake/session"
)

func TestRender(t *testing.T) {
	var out bytes.Buffer
	term := New(strings.NewReader(""), &out)

	err := term.Render(session.Frame{Status: session.StatusLine(100), Rows: []string{"###", "#@#", "###"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := clearScreen + "Snake Game, Score: 100\r\n###\r\n#@#\r\n###\r\n"
	if out.String() != want {
		t.Fatalf("output=%q want=%q", out.String(), want)
	}
}

func TestLoopOverStreams(t *testing.T) {
	var out bytes.Buffer
	term := New(strings.NewReader("d\nzq"), &out)
	defer term.Close()

	st := game.NewState(0, game.DefaultMaxLength)
	st.Snake.SpawnAt(game.Point{X: 5, Y: 5})
	st.Food.Place(game.Point{X: 6, Y: 5})
	s := session.NewWithState(st, nil)

	res, err := session.NewLoop(s, term, term).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Cause != game.CauseQuit || res.Score != 200 || res.Turns != 1 {
		t.Fatalf("result=%+v", res)
	}
	if n := strings.Count(out.String(), clearScreen); n != 2 {
		t.Fatalf("repaints=%d want=2", n)
	}
	if !strings.Contains(out.String(), "Snake Game, Score: 200") {
		t.Fatalf("missing score line:\n%s", out.String())
	}
}

func TestLoopEndOfInputQuits(t *testing.T) {
	term := New(strings.NewReader(""), &bytes.Buffer{})
	st := game.NewState(0, 4)
	st.Snake.SpawnAt(game.Point{X: 5, Y: 5})

	res, err := session.NewLoop(session.NewWithState(st, nil), term, term).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Cause != game.CauseQuit {
		t.Fatalf("cause=%q want=quit", res.Cause)
	}
}

func TestLoopSkipsArrowKeys(t *testing.T) {
	// Up arrow, a CSI with parameters (Ctrl-Right), an SS3 F1, then d.
	term := New(strings.NewReader("\x1b[A\x1b[1;5C\x1bOPd"), &bytes.Buffer{})
	st := game.NewState(0, 4)
	st.Snake.SpawnAt(game.Point{X: 5, Y: 5})
	s := session.NewWithState(st, nil)

	res, err := session.NewLoop(s, term, term).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Cause != game.CauseQuit || res.Turns != 1 {
		t.Fatalf("arrow keys ended the round early: result=%+v", res)
	}
	if head := s.State().Snake.Head(); head != (game.Point{X: 6, Y: 5}) {
		t.Fatalf("head=%v want=(6,5)", head)
	}
}

func TestNextKeyLoneEscape(t *testing.T) {
	term := New(strings.NewReader("\x1b"), &bytes.Buffer{})
	r, err := term.NextKey(context.Background())
	if err != nil {
		t.Fatalf("next key: %v", err)
	}
	if r != keyEsc {
		t.Fatalf("key=%q want=esc", r)
	}
}

func TestNextKeyEscapeSequence(t *testing.T) {
	term := New(strings.NewReader("\x1b[Bs"), &bytes.Buffer{})
	for i, want := range []rune{0, 's'} {
		r, err := term.NextKey(context.Background())
		if err != nil {
			t.Fatalf("key %d: %v", i, err)
		}
		if r != want {
			t.Fatalf("key %d=%q want=%q", i, r, want)
		}
	}
}
