// Package debugview shows what every live thread is about to do.
package debugview

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/volute/internal/format/table"
	"github.com/atomicstack/volute/internal/program"
	"github.com/atomicstack/volute/internal/theme"
)

const (
	emptyMessage = "Nothing is running."
	memoryCell   = 12
	ellipsis     = "…"
)

// ThreadState is the last reported state of one live thread.
type ThreadState struct {
	Name        string
	Location    program.Location
	Instruction string
	Memory      []string
}

// View collects thread reports in spawn order. It implements vm.Observer.
type View struct {
	states []ThreadState
	styles *theme.Styles
}

func New() *View {
	return &View{styles: theme.Default()}
}

func (v *View) UpdateThreadState(name string, loc program.Location, instruction program.Word, memory []string) {
	state := ThreadState{
		Name:        name,
		Location:    loc,
		Instruction: instruction.Text,
		Memory:      append([]string(nil), memory...),
	}
	for i := range v.states {
		if v.states[i].Name == name {
			v.states[i] = state
			return
		}
	}
	v.states = append(v.states, state)
}

func (v *View) UpdateThreadEnded(name string) {
	for i := range v.states {
		if v.states[i].Name == name {
			v.states = append(v.states[:i], v.states[i+1:]...)
			return
		}
	}
}

// Reset forgets every thread, for a new run.
func (v *View) Reset() {
	v.states = nil
}

// States returns a snapshot of the live threads.
func (v *View) States() []ThreadState {
	out := make([]ThreadState, len(v.states))
	for i, s := range v.states {
		s.Memory = append([]string(nil), s.Memory...)
		out[i] = s
	}
	return out
}

// Render lays the states out as a table no wider than width cells. A width
// of zero or less disables clipping.
func (v *View) Render(width int) string {
	if len(v.states) == 0 {
		return v.styles.Info.Render(clip(emptyMessage, width))
	}
	rows := make([][]string, 0, len(v.states))
	for _, s := range v.states {
		rows = append(rows, []string{
			s.Name,
			s.Location.String(),
			s.Instruction,
			memoryCells(s.Memory),
		})
	}
	lines := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignRight})
	for i, line := range lines {
		lines[i] = v.styles.Memory.Render(clip(line, width))
	}
	return strings.Join(lines, "\n")
}

// memoryCells renders the stack top last, each value bracketed so empty
// strings stay visible.
func memoryCells(memory []string) string {
	if len(memory) == 0 {
		return "[]"
	}
	cells := make([]string, len(memory))
	for i, m := range memory {
		if ansi.StringWidth(m) > memoryCell {
			m = truncate.StringWithTail(m, memoryCell, ellipsis)
		}
		cells[i] = "[" + m + "]"
	}
	return strings.Join(cells, " ")
}

func clip(line string, width int) string {
	if width <= 0 || ansi.StringWidth(line) <= width {
		return line
	}
	return truncate.StringWithTail(line, uint(width), ellipsis)
}
