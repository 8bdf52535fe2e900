// Package plain is the bare terminal front end: it clears the screen and
// reprints the whole board every tick, and reads single key presses from a
// raw-mode stdin.
package plain

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/brensch/termsnake/session"
	"golang.org/x/term"
)

const (
	clearScreen = "\x1b[H\x1b[2J"
	keyEsc      = 0x1b
)

// Terminal writes frames to out and reads keys from in.
type Terminal struct {
	out     io.Writer
	in      *bufio.Reader
	restore func() error
}

// New wraps arbitrary streams without touching terminal modes.
func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		out:     out,
		in:      bufio.NewReader(in),
		restore: func() error { return nil },
	}
}

// Open puts in into raw mode when it is a terminal so keys arrive without
// Enter. Close restores the previous mode.
func Open(in *os.File, out io.Writer) (*Terminal, error) {
	t := New(in, out)
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return t, nil
	}
	prev, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("raw mode: %w", err)
	}
	t.restore = func() error { return term.Restore(fd, prev) }
	return t, nil
}

// Render erases the screen and prints the status line and board. Lines end
// in CRLF because raw mode disables output newline translation.
func (t *Terminal) Render(f session.Frame) error {
	w := bufio.NewWriter(t.out)
	_, _ = w.WriteString(clearScreen)
	_, _ = w.WriteString(f.Status)
	_, _ = w.WriteString("\r\n")
	for _, row := range f.Rows {
		_, _ = w.WriteString(row)
		_, _ = w.WriteString("\r\n")
	}
	return w.Flush()
}

// NextKey reads one rune. The read cannot be interrupted, so cancellation
// is only noticed between keys.
//
// An Esc that arrives with more bytes already buffered is the start of an
// escape sequence (arrow, function or Alt keys). The sequence is swallowed
// and reported as 0; a lone Esc comes back as Esc.
func (t *Terminal) NextKey(ctx context.Context) (rune, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r, _, err := t.in.ReadRune()
	if err != nil {
		return 0, err
	}
	if r == keyEsc && t.in.Buffered() > 0 {
		t.skipEscape()
		return 0, nil
	}
	return r, nil
}

// skipEscape discards the rest of an escape sequence whose Esc has been
// read. Only buffered bytes are consumed so a truncated sequence never
// blocks.
func (t *Terminal) skipEscape() {
	b, err := t.in.ReadByte()
	if err != nil {
		return
	}
	switch b {
	case '[':
		// CSI: parameter and intermediate bytes up to a final byte in 0x40-0x7e.
		for t.in.Buffered() > 0 {
			c, err := t.in.ReadByte()
			if err != nil || (c >= 0x40 && c <= 0x7e) {
				return
			}
		}
	case 'O':
		// SS3: exactly one more byte.
		if t.in.Buffered() > 0 {
			_, _ = t.in.ReadByte()
		}
	}
}

func (t *Terminal) Close() error {
	return t.restore()
}
