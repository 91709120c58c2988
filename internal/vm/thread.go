// Package vm interprets volute programs. A Thread executes one instruction
// per Step against a shared program.Program; a Machine round-robins over the
// live threads of one run.
package vm

import (
	"unicode/utf8"

	"github.com/atomicstack/volute/internal/logging/events"
	"github.com/atomicstack/volute/internal/program"
)

// Observer receives a thread's state after every step. Calls are synchronous
// notifications; implementations must not touch the program or the thread.
type Observer interface {
	UpdateThreadState(name string, loc program.Location, instruction program.Word, memory []string)
	UpdateThreadEnded(name string)
}

// Thread is one execution context: an instruction pointer and a memory stack.
type Thread struct {
	name     string
	prog     *program.Program
	ip       program.Location
	running  bool
	memory   []string
	observer Observer
	// onEdit is told about every edit this thread makes, so pointers of
	// other threads on the same program can follow it.
	onEdit func(src *Thread, e edit)
}

// NewThread starts a thread at start with input as its initial memory and
// reports the initial state to observer, which may be nil.
func NewThread(name string, prog *program.Program, start program.Location, input []string, observer Observer) *Thread {
	t := &Thread{
		name:     name,
		prog:     prog,
		ip:       start,
		running:  true,
		memory:   append([]string(nil), input...),
		observer: observer,
	}
	t.report()
	return t
}

// Name returns the thread name.
func (t *Thread) Name() string { return t.name }

// IsRunning reports whether the thread still has an instruction pointer.
func (t *Thread) IsRunning() bool { return t.running }

// InstructionPointer returns the location of the next instruction.
func (t *Thread) InstructionPointer() (program.Location, bool) {
	return t.ip, t.running
}

// Memory returns a copy of the memory stack, bottom first.
func (t *Thread) Memory() []string {
	return append([]string(nil), t.memory...)
}

// Step executes the instruction at the instruction pointer. A returned
// *Fault means the thread could not continue and has halted.
func (t *Thread) Step() error {
	if !t.running {
		return nil
	}
	at := t.ip
	word := t.prog.ReadWord(at, false)
	if err := t.perform(word); err != nil {
		fault := &Fault{Thread: t.name, Location: at, Instruction: word.Text, Err: err}
		events.Thread.Fault(t.name, at.String(), word.Text, err)
		t.running = false
		t.report()
		return fault
	}
	t.report()
	return nil
}

type flow int

const (
	advance flow = iota
	transfer
)

type handler func(t *Thread, operand string) (flow, error)

// handlers maps opcodes to their implementation; glyph synonyms are resolved
// before lookup by normalize.
var handlers = map[rune]handler{
	'l': (*Thread).load,
	's': (*Thread).save,
	'm': (*Thread).math,
	'j': (*Thread).branchIfTrue,
	'J': (*Thread).jump,
	'h': (*Thread).halt,
	'f': (*Thread).find,
	'p': (*Thread).insertWord,
	'o': (*Thread).insertLine,
	'd': (*Thread).deleteWord,
	'c': (*Thread).deleteLetter,
	'n': (*Thread).paste,
	't': (*Thread).move,
	'u': (*Thread).drop,
	'v': (*Thread).swap,
	'w': (*Thread).dup,
	'y': (*Thread).peekLetter,
	'r': (*Thread).indirectJump,
}

func (t *Thread) perform(word program.Word) error {
	instruction := normalize(word.Text)
	op, size := utf8.DecodeRuneInString(instruction)
	next := advance
	if h, ok := handlers[op]; ok && size > 0 {
		f, err := h(t, instruction[size:])
		if err != nil {
			return err
		}
		next = f
	}
	if next == transfer {
		return nil
	}
	// word.Length is the pre-edit length; the pointer itself was rebased.
	t.ip, t.running = t.prog.NextWordLocation(program.Location{
		Row: t.ip.Row,
		Col: t.ip.Col + word.Length,
	})
	return nil
}

func (t *Thread) report() {
	if t.observer == nil {
		return
	}
	if !t.running {
		t.observer.UpdateThreadEnded(t.name)
		return
	}
	t.observer.UpdateThreadState(t.name, t.ip, t.prog.ReadWord(t.ip, false), t.Memory())
}

func (t *Thread) push(v string) {
	t.memory = append(t.memory, v)
}

func (t *Thread) pop() (string, error) {
	if len(t.memory) == 0 {
		return "", ErrStackUnderflow
	}
	v := t.memory[len(t.memory)-1]
	t.memory = t.memory[:len(t.memory)-1]
	return v, nil
}

func (t *Thread) pushLocation(loc program.Location) {
	t.push(EncodeLocation(loc))
}

func (t *Thread) popLocation() (program.Location, error) {
	v, err := t.pop()
	if err != nil {
		return program.Location{}, err
	}
	return ParseLocation(v)
}

// edit is one change to the shared grid: `deleted` letters removed and
// `inserted` letters added at `at`, or a new row inserted at at.Row when
// line is set. Edits starting exactly at a pointer move it only when
// inclusive is set, which is the case for pure insertions.
type edit struct {
	at        program.Location
	deleted   int
	inserted  int
	inclusive bool
	line      bool
}

// edited rebases this thread's pointer and passes the edit on.
func (t *Thread) edited(e edit) {
	t.rebase(e)
	if t.onEdit != nil {
		t.onEdit(t, e)
	}
}

// rebase keeps the instruction pointer on the same logical letter after e.
// It reports whether the pointer moved.
func (t *Thread) rebase(e edit) bool {
	if !t.running {
		return false
	}
	if e.line {
		if e.at.Row > t.ip.Row {
			return false
		}
		t.ip.Row++
		return true
	}
	if e.at.Row != t.ip.Row {
		return false
	}
	if e.at.Col > t.ip.Col || (e.at.Col == t.ip.Col && !e.inclusive) {
		return false
	}
	col := max(t.ip.Col-e.deleted, e.at.Col) + e.inserted
	if col == t.ip.Col {
		return false
	}
	t.ip.Col = col
	return true
}
