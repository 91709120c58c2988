package vm

import (
	"github.com/atomicstack/volute/internal/logging/events"
	"github.com/atomicstack/volute/internal/program"
)

// MainThread names the thread started at the program's entry point.
const MainThread = "main"

// Machine schedules the live threads of one run cooperatively: each Step
// runs exactly one instruction of one thread, in round-robin order.
type Machine struct {
	prog     *program.Program
	observer Observer
	threads  []*Thread
	cursor   int
}

// NewMachine creates a machine with no threads. observer may be nil.
func NewMachine(prog *program.Program, observer Observer) *Machine {
	return &Machine{prog: prog, observer: observer}
}

// Program returns the shared program.
func (m *Machine) Program() *program.Program {
	return m.prog
}

// StartThread appends a new thread at start with a copy of input as its
// memory. A start outside the grid starts nothing and returns nil.
func (m *Machine) StartThread(name string, start program.Location, input []string) *Thread {
	if !m.prog.Contains(start) {
		return nil
	}
	t := NewThread(name, m.prog, start, input, m.observer)
	t.onEdit = m.rebaseOthers
	m.threads = append(m.threads, t)
	events.Thread.Spawn(name, start.String(), input)
	return t
}

// StartMainThread starts MainThread at the entry point, if there is one.
func (m *Machine) StartMainThread() *Thread {
	entry, ok := m.prog.EntryPoint()
	if !ok {
		return nil
	}
	return m.StartThread(MainThread, entry, nil)
}

// IsRunning reports whether any thread is live.
func (m *Machine) IsRunning() bool {
	return len(m.threads) > 0
}

// IsFinished reports whether nothing is live and no click handler could
// start anything new.
func (m *Machine) IsFinished() bool {
	return !m.IsRunning() && len(m.prog.ClickHandlerLocations()) == 0
}

// Threads returns the live threads in scheduling order.
func (m *Machine) Threads() []*Thread {
	return append([]*Thread(nil), m.threads...)
}

// Step advances the thread under the cursor by one instruction. Threads that
// halt or fault are removed; a fault is returned.
func (m *Machine) Step() error {
	if !m.IsRunning() {
		return nil
	}
	if m.cursor >= len(m.threads) {
		m.cursor = 0
	}
	t := m.threads[m.cursor]
	err := t.Step()
	if t.IsRunning() {
		m.cursor++
	} else {
		m.threads = append(m.threads[:m.cursor], m.threads[m.cursor+1:]...)
		events.Thread.Halt(t.Name())
	}
	if m.cursor >= len(m.threads) {
		m.cursor = 0
	}
	return err
}

// rebaseOthers applies an edit made by src to every other live thread and
// reports the ones whose pointer moved.
func (m *Machine) rebaseOthers(src *Thread, e edit) {
	for _, t := range m.threads {
		if t != src && t.rebase(e) {
			t.report()
		}
	}
}
