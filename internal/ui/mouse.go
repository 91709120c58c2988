package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rivo/uniseg"

	"github.com/atomicstack/volute/internal/logging/events"
	"github.com/atomicstack/volute/internal/program"
)

// handleMouseMsg turns a left press on program text into a click event.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok || m.finding {
		return nil
	}
	if ev.Action != tea.MouseActionPress || ev.Button != tea.MouseButtonLeft {
		return nil
	}
	loc, hit := m.hitTest(ev.X, ev.Y)
	if !hit {
		events.UI.Mouse(ev.X, ev.Y, "")
		return nil
	}
	events.UI.Mouse(ev.X, ev.Y, loc.String())
	m.click(loc)
	return nil
}

func (m *Model) click(loc program.Location) {
	started, err := m.drv.Click(loc)
	if err != nil {
		m.noteStepError(err)
		return
	}
	if started == 0 {
		return
	}
	m.errMsg = ""
	if !m.showDebug {
		m.runToSettle()
	}
}

// hitTest maps a screen cell to the letter drawn there. Wide letters cover
// several cells.
func (m *Model) hitTest(x, y int) (program.Location, bool) {
	row := y - m.programTop()
	lines := m.buf.Lines()
	rows := m.programRows()
	if row < 0 || row >= len(lines) || row >= rows || x < 0 {
		return program.Location{}, false
	}
	if len(lines) > rows && row == rows-1 {
		return program.Location{}, false
	}
	cell := 0
	for col, letter := range lines[row] {
		w := max(uniseg.StringWidth(letter.Grapheme), 1)
		if x < cell+w {
			return program.Location{Row: row, Col: col}, true
		}
		cell += w
	}
	return program.Location{}, false
}
