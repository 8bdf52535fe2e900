// Package input turns a stream of raw key presses into game commands.
//
// A KeySource is whatever owns the keyboard (a bubbletea program, a tcell
// screen, raw stdin). The Adapter blocks on it until a key maps to something
// the game understands.
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode"

	"github.com/brensch/termsnake/rules"
)

// Command is the result of mapping one key.
type Command int

const (
	Ignore Command = iota
	Up
	Down
	Left
	Right
	Quit
)

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1b
)

func (c Command) String() string {
	switch c {
	case Ignore:
		return "ignore"
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Move returns the rules move for a movement command.
// ok is false for Quit and Ignore.
func (c Command) Move() (move int, ok bool) {
	switch c {
	case Up:
		return rules.MoveUp, true
	case Down:
		return rules.MoveDown, true
	case Left:
		return rules.MoveLeft, true
	case Right:
		return rules.MoveRight, true
	}
	return 0, false
}

// Map maps a key to a command. Letters are case-insensitive; Ctrl-C and Esc
// quit as well as q, since raw terminals swallow the interrupt.
func Map(key rune) Command {
	switch unicode.ToLower(key) {
	case 'w':
		return Up
	case 's':
		return Down
	case 'a':
		return Left
	case 'd':
		return Right
	case 'q', keyCtrlC, keyEsc:
		return Quit
	}
	return Ignore
}

// KeySource yields key presses one at a time, blocking until one arrives.
type KeySource interface {
	NextKey(ctx context.Context) (rune, error)
}

// Adapter reads keys until one maps to a non-Ignore command.
type Adapter struct {
	src KeySource
}

func NewAdapter(src KeySource) *Adapter {
	return &Adapter{src: src}
}

// Next blocks until an actionable key arrives. A source that reports io.EOF
// is treated as Quit; any other source error is returned.
func (a *Adapter) Next(ctx context.Context) (Command, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Ignore, err
		}
		key, err := a.src.NextKey(ctx)
		if errors.Is(err, io.EOF) {
			return Quit, nil
		}
		if err != nil {
			return Ignore, fmt.Errorf("read key: %w", err)
		}
		if cmd := Map(key); cmd != Ignore {
			return cmd, nil
		}
	}
}

// Keys is a KeySource over a fixed sequence, reporting io.EOF when drained.
type Keys struct {
	keys []rune
	pos  int
}

func NewKeys(keys string) *Keys {
	return &Keys{keys: []rune(keys)}
}

func (k *Keys) NextKey(ctx context.Context) (rune, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if k.pos >= len(k.keys) {
		return 0, io.EOF
	}
	r := k.keys[k.pos]
	k.pos++
	return r, nil
}

// Consumed reports how many keys have been read.
func (k *Keys) Consumed() int { return k.pos }
