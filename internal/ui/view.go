package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/atomicstack/volute/internal/driver"
	"github.com/atomicstack/volute/internal/program"
)

const defaultTitle = "volute"

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // already styled; truncate without re-rendering
}

// View implements tea.Model.
func (m *Model) View() string {
	header := []styledLine{{text: m.headerText(), style: styles.Header}}
	footer := m.footerLines()

	programLines := m.programLines()
	if rows := m.programRows(); len(programLines) > rows {
		programLines = programLines[:rows]
		if rows > 0 {
			programLines[rows-1] = styledLine{text: "…", style: styles.Program}
		}
	}

	lines := make([]styledLine, 0, len(header)+len(programLines)+len(footer))
	lines = append(lines, header...)
	lines = append(lines, programLines...)
	lines = append(lines, footer...)
	return renderLines(applyWidth(lines, m.width))
}

func (m *Model) headerText() string {
	title := m.title
	if title == "" {
		title = defaultTitle
	}
	if id := m.drv.RunID(); id != "" {
		return fmt.Sprintf("%s  run %s", title, shortID(id))
	}
	return title
}

// programTop is the screen row of the first program line.
func (m *Model) programTop() int {
	return 1
}

// programRows is how many program lines fit above the footer.
func (m *Model) programRows() int {
	total := len(m.buf.Lines())
	if m.height <= 0 {
		return total
	}
	rows := m.height - m.programTop() - len(m.footerLines())
	return max(min(rows, total), 1)
}

// programLines renders the buffer, marking the instruction under every
// live pointer when the debugger is shown.
func (m *Model) programLines() []styledLine {
	marked := m.instructionCells()
	rows := m.buf.Lines()
	out := make([]styledLine, 0, len(rows))
	for r, row := range rows {
		if len(marked) == 0 {
			var b strings.Builder
			for _, letter := range row {
				b.WriteString(letter.Grapheme)
			}
			out = append(out, styledLine{text: b.String(), style: styles.Program})
			continue
		}
		var b strings.Builder
		for c, letter := range row {
			if marked[program.Location{Row: r, Col: c}] {
				b.WriteString(styles.Instruction.Render(letter.Grapheme))
			} else {
				b.WriteString(styles.Program.Render(letter.Grapheme))
			}
		}
		out = append(out, styledLine{text: b.String(), raw: true})
	}
	return out
}

func (m *Model) instructionCells() map[program.Location]bool {
	if !m.showDebug {
		return nil
	}
	prog := m.drv.Program()
	pointers := m.drv.Pointers()
	if prog == nil || len(pointers) == 0 {
		return nil
	}
	cells := make(map[program.Location]bool)
	for _, ptr := range pointers {
		word := prog.ReadWord(ptr, false)
		n := max(word.Length, 1)
		for i := 0; i < n; i++ {
			cells[program.Location{Row: ptr.Row, Col: ptr.Col + i}] = true
		}
	}
	return cells
}

func (m *Model) footerLines() []styledLine {
	lines := []styledLine{{}, m.statusLine()}
	if m.errMsg != "" {
		lines = append(lines, styledLine{text: "Error: " + m.errMsg, style: styles.Error})
	} else if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showDebug {
		lines = append(lines, m.debugPanel()...)
	}
	if m.finding {
		lines = append(lines, m.finderLines()...)
		lines = append(lines, styledLine{text: m.help.View(finderHelp(m.keys)), raw: true})
	} else {
		lines = append(lines, styledLine{text: m.help.View(m.keys), raw: true})
	}
	return lines
}

func (m *Model) statusLine() styledLine {
	status := m.drv.Status()
	style := styles.Status
	switch status {
	case driver.StatusRunning:
		style = styles.StatusRunning
	case driver.StatusWaiting:
		style = styles.StatusWaiting
	case driver.StatusFinished:
		style = styles.StatusFinished
	case driver.StatusFaulted:
		style = styles.Error
	}
	text := fmt.Sprintf("%s  steps %d  threads %d", status, m.drv.Steps(), len(m.drv.Pointers()))
	if m.fastForward {
		text += "  ▶▶"
	}
	return styledLine{text: text, style: style}
}

func (m *Model) debugPanel() []styledLine {
	inner := m.width - 4
	body := styles.PanelTitle.Render("threads") + "\n" + m.debug.Render(inner)
	panel := styles.Panel
	if m.width > 2 {
		p := panel.Width(m.width - 2)
		panel = &p
	}
	rendered := panel.Render(body)
	parts := strings.Split(rendered, "\n")
	lines := make([]styledLine, len(parts))
	for i, part := range parts {
		lines[i] = styledLine{text: part, raw: true}
	}
	return lines
}

func (m *Model) finderLines() []styledLine {
	lines := []styledLine{{text: m.finderInput.View(), raw: true}}
	if m.finder == nil {
		return lines
	}
	if len(m.finder.Items) == 0 {
		msg := "(no words)"
		if m.finder.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", m.finder.Filter)
		}
		return append(lines, styledLine{text: msg, style: styles.Info})
	}
	for i, item := range m.finder.Visible(finderMaxVisible) {
		idx := m.finder.ViewportOffset + i
		text := fmt.Sprintf("%s  %s", item.Label, item.Location)
		if idx == m.finder.Cursor {
			lines = append(lines, styledLine{text: "▌ " + text, style: styles.FinderSelected})
		} else {
			lines = append(lines, styledLine{text: "  " + text, style: styles.FinderItem})
		}
	}
	return lines
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		if ansi.StringWidth(line.text) > width {
			line.text = ansi.Truncate(line.text, width, "…")
		}
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line.raw || line.style == nil {
			out[i] = line.text
			continue
		}
		out[i] = line.style.Render(line.text)
	}
	return strings.Join(out, "\n")
}
