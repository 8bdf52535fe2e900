// Package tui is the default front end: a bubbletea program that shows the
// board and advances the round one tick per actionable key press.
package tui

import (
	"strings"

	"github.com/brensch/termsnake/game"
	"github.com/brensch/termsnake/input"
	"github.com/brensch/termsnake/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	status lipgloss.Style
	help   lipgloss.Style
	cells  map[rune]lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		status: lipgloss.NewStyle().Bold(true),
		help:   lipgloss.NewStyle().Faint(true),
		cells: map[rune]lipgloss.Style{
			rune(game.CellWall): lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			rune(game.CellBody): lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
			rune(game.CellHead): lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
			rune(game.CellFood): lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		},
	}
}

// Model drives a session from bubbletea key messages. Every tick's frame is
// also passed to the optional spectator renderer.
type Model struct {
	session    *session.Session
	spectators session.Renderer
	frame      session.Frame
	err        error
	styles     styles
}

// New runs the first tick immediately so the board is ready for the first View.
func New(s *session.Session, spectators session.Renderer) Model {
	m := Model{
		session:    s,
		spectators: spectators,
		styles:     defaultStyles(),
	}
	m = m.tick()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.done() {
		return tea.Quit
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.done() {
		return m, nil
	}

	cmd := input.Map(keyRune(key))
	if cmd == input.Ignore {
		return m, nil
	}

	m.session.Apply(cmd)
	if m.session.Over() {
		return m, tea.Quit
	}

	m = m.tick()
	if m.done() {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.status.Render(m.frame.Status))
	sb.WriteByte('\n')
	for _, row := range m.frame.Rows {
		for _, c := range row {
			if st, ok := m.styles.cells[c]; ok {
				sb.WriteString(st.Render(string(c)))
			} else {
				sb.WriteRune(c)
			}
		}
		sb.WriteByte('\n')
	}
	if !m.done() {
		sb.WriteString(m.styles.help.Render("w/a/s/d to move, q to quit"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Frame is the last frame produced.
func (m Model) Frame() session.Frame { return m.frame }

// Result reports the round outcome once the program has exited.
func (m Model) Result() session.Result { return m.session.Result() }

// Err is the error that aborted the round, if any.
func (m Model) Err() error { return m.err }

func (m Model) done() bool {
	return m.err != nil || m.session.Over()
}

func (m Model) tick() Model {
	frame, err := m.session.Tick()
	if err != nil {
		m.err = err
		return m
	}
	m.frame = frame
	if m.spectators != nil {
		if err := m.spectators.Render(frame); err != nil {
			m.err = err
		}
	}
	return m
}

// keyRune reduces a key message to the rune the input mapping understands.
func keyRune(k tea.KeyMsg) rune {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 {
			return k.Runes[0]
		}
	case tea.KeyCtrlC:
		return 0x03
	case tea.KeyEsc:
		return 0x1b
	}
	return 0
}
