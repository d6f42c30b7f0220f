package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const pageStep = 10

// listState is a cursor and scroll offset over a list of rows.
type listState struct {
	cursor int
	offset int
}

func (l *listState) move(delta, n int) {
	if n == 0 {
		l.cursor = 0
		return
	}
	l.cursor = max(0, min(l.cursor+delta, n-1))
}

// handleKey moves the cursor for navigation keys and reports whether the
// key was one of them.
func (l *listState) handleKey(keys KeyMap, msg tea.KeyMsg, n int) bool {
	switch {
	case key.Matches(msg, keys.Up):
		l.move(-1, n)
	case key.Matches(msg, keys.Down):
		l.move(1, n)
	case key.Matches(msg, keys.PageUp):
		l.move(-pageStep, n)
	case key.Matches(msg, keys.PageDown):
		l.move(pageStep, n)
	case key.Matches(msg, keys.Home):
		l.cursor = 0
	case key.Matches(msg, keys.End):
		l.move(n, n)
	default:
		return false
	}
	return true
}

// handleMouse scrolls on wheel events.
func (l *listState) handleMouse(msg tea.MouseMsg, reverse bool, n int) bool {
	if msg.Action != tea.MouseActionPress {
		return false
	}
	step := 0
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		step = -1
	case tea.MouseButtonWheelDown:
		step = 1
	default:
		return false
	}
	if reverse {
		step = -step
	}
	l.move(step, n)
	return true
}

// window scrolls just enough to keep the cursor among rows visible lines
// and returns the visible range.
func (l *listState) window(rows, n int) (start, end int) {
	if rows <= 0 || n == 0 {
		return 0, 0
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+rows {
		l.offset = l.cursor - rows + 1
	}
	l.offset = max(0, min(l.offset, n-rows))
	return l.offset, min(l.offset+rows, n)
}
