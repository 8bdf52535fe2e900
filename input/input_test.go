package input

import (
	"context"
	"errors"
	"testing"

	"github.com/brensch/termsnake/rules"
)

func TestMap(t *testing.T) {
	cases := []struct {
		key  rune
		want Command
	}{
		{'w', Up}, {'W', Up},
		{'s', Down}, {'S', Down},
		{'a', Left}, {'A', Left},
		{'d', Right}, {'D', Right},
		{'q', Quit}, {'Q', Quit},
		{0x03, Quit}, {0x1b, Quit},
		{'x', Ignore}, {' ', Ignore}, {'1', Ignore}, {'\n', Ignore},
	}
	for _, c := range cases {
		if got := Map(c.key); got != c.want {
			t.Fatalf("Map(%q)=%s want=%s", c.key, got, c.want)
		}
	}
}

func TestCommandMove(t *testing.T) {
	cases := []struct {
		cmd  Command
		move int
		ok   bool
	}{
		{Up, rules.MoveUp, true},
		{Down, rules.MoveDown, true},
		{Left, rules.MoveLeft, true},
		{Right, rules.MoveRight, true},
		{Quit, 0, false},
		{Ignore, 0, false},
	}
	for _, c := range cases {
		move, ok := c.cmd.Move()
		if move != c.move || ok != c.ok {
			t.Fatalf("%s.Move()=(%d,%v) want=(%d,%v)", c.cmd, move, ok, c.move, c.ok)
		}
	}
}

func TestAdapter_SkipsUnknownKeys(t *testing.T) {
	keys := NewKeys("xyz1D w")
	a := NewAdapter(keys)

	cmd, err := a.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if cmd != Right {
		t.Fatalf("cmd=%s want=right", cmd)
	}
	// The wait ends on the first actionable key; the rest stays unread.
	if keys.Consumed() != 5 {
		t.Fatalf("consumed=%d want=5", keys.Consumed())
	}

	cmd, err = a.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if cmd != Up {
		t.Fatalf("cmd=%s want=up", cmd)
	}
}

func TestAdapter_EOFQuits(t *testing.T) {
	a := NewAdapter(NewKeys("zz"))
	cmd, err := a.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if cmd != Quit {
		t.Fatalf("cmd=%s want=quit", cmd)
	}
}

type failingSource struct{ err error }

func (f failingSource) NextKey(context.Context) (rune, error) { return 0, f.err }

func TestAdapter_SourceErrorPropagates(t *testing.T) {
	boom := errors.New("tty gone")
	_, err := NewAdapter(failingSource{err: boom}).Next(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v want wrapped %v", err, boom)
	}
}

func TestAdapter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAdapter(NewKeys("w")).Next(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
}
