// Package driver owns one run of a volute program at a time: it builds the
// program and machine from a backend, steps them, routes clicks to the
// program's handlers and reports why the run stopped.
package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/atomicstack/volute/internal/logging"
	"github.com/atomicstack/volute/internal/logging/events"
	"github.com/atomicstack/volute/internal/program"
	"github.com/atomicstack/volute/internal/vm"
)

var (
	// ErrNotStarted is returned when stepping or clicking without a live run.
	ErrNotStarted = errors.New("no run in progress")

	// ErrStepLimit is returned by Run when the configured step budget ran out.
	ErrStepLimit = errors.New("step limit reached")
)

// Status describes where a run is.
type Status int

const (
	// StatusIdle is a driver that has never been started.
	StatusIdle Status = iota
	// StatusRunning has at least one live thread.
	StatusRunning
	// StatusWaiting has no live thread but click handlers remain.
	StatusWaiting
	// StatusFinished has no live thread and nothing a click could start.
	StatusFinished
	// StatusFaulted ended on a thread fault; see Err.
	StatusFaulted
	// StatusStopped was abandoned by Stop, a canceled context or the step
	// limit.
	StatusStopped
)

// String returns the status as shown to users.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusWaiting:
		return "waiting for clicks"
	case StatusFinished:
		return "finished"
	case StatusFaulted:
		return "faulted"
	case StatusStopped:
		return "stopped"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Options configure a Driver.
type Options struct {
	// ImmediateSync splices every edit into the backend as it happens.
	// Otherwise the backend is rewritten whenever the run settles.
	ImmediateSync bool
	// MaxSteps bounds Run; zero means no bound.
	MaxSteps int
	// Observer receives thread reports; may be nil.
	Observer vm.Observer
}

// Driver runs programs read from a backend.
type Driver struct {
	backend program.Backend
	opts    Options

	prog    *program.Program
	machine *vm.Machine
	runID   string
	names   map[string]int
	steps   int
	status  Status
	err     error
}

// New creates an idle driver over backend; call Start to begin a run.
func New(backend program.Backend, opts Options) *Driver {
	return &Driver{backend: backend, opts: opts}
}

// Start abandons any current run and begins a new one at the entry point.
// A program without an entry point finishes immediately.
func (d *Driver) Start() {
	if d.status == StatusRunning || d.status == StatusWaiting {
		d.Stop()
	}
	d.prog = program.New(d.backend, d.opts.ImmediateSync)
	d.machine = vm.NewMachine(d.prog, d.opts.Observer)
	d.runID = uuid.NewString()
	d.names = map[string]int{vm.MainThread: 1}
	d.steps = 0
	d.err = nil
	logging.SetRunID(d.runID)

	entry, ok := d.prog.EntryPoint()
	entryText := ""
	if ok {
		entryText = entry.String()
	}
	events.Run.Start(entryText, len(d.prog.ClickHandlerLocations()))

	d.status = StatusRunning
	d.machine.StartMainThread()
	d.settle()
}

// Step executes one instruction of one thread. A *vm.Fault ends the run.
func (d *Driver) Step() error {
	if d.machine == nil || d.status != StatusRunning {
		return ErrNotStarted
	}
	err := d.machine.Step()
	d.steps++
	if err != nil {
		d.fault(err)
		return err
	}
	d.settle()
	return nil
}

// Run steps until no thread is live. It stops early on a fault, when
// MaxSteps is exhausted (ErrStepLimit) or when ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	if d.machine == nil || d.status == StatusFaulted || d.status == StatusStopped {
		return ErrNotStarted
	}
	for d.status == StatusRunning {
		if err := ctx.Err(); err != nil {
			d.stop(events.RunReasonCanceled)
			return err
		}
		if d.opts.MaxSteps > 0 && d.steps >= d.opts.MaxSteps {
			d.stop(events.RunReasonLimit)
			return fmt.Errorf("%d steps: %w", d.steps, ErrStepLimit)
		}
		if err := d.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Stop abandons the current run, leaving the program text as it is.
func (d *Driver) Stop() {
	if d.machine == nil || d.status == StatusStopped || d.status == StatusFaulted {
		return
	}
	d.stop(events.RunReasonStopped)
}

// Click starts one thread per click handler, each named after the click
// location and holding it encoded as its only memory value. Repeated names
// within a run get a "#n" suffix. It returns the number of threads started.
func (d *Driver) Click(loc program.Location) (int, error) {
	if d.machine == nil {
		return 0, ErrNotStarted
	}
	switch d.status {
	case StatusFaulted, StatusStopped:
		return 0, ErrNotStarted
	}
	handlers := d.prog.ClickHandlerLocations()
	events.Run.Click(loc.String(), len(handlers))

	base := fmt.Sprintf("mouse:%d:%d", loc.Row+1, loc.Col+1)
	started := 0
	for _, h := range handlers {
		if d.machine.StartThread(d.uniqueName(base), h, []string{vm.EncodeLocation(loc)}) != nil {
			started++
		}
	}
	if started > 0 {
		d.status = StatusRunning
	}
	return started, nil
}

// StartThread starts a thread at loc, outside of any click. The name is
// made unique within the run the same way click threads are.
func (d *Driver) StartThread(name string, loc program.Location) error {
	if d.machine == nil {
		return ErrNotStarted
	}
	switch d.status {
	case StatusFaulted, StatusStopped:
		return ErrNotStarted
	}
	if d.machine.StartThread(d.uniqueName(name), loc, nil) == nil {
		return fmt.Errorf("start %s at %s: %w", name, loc, program.ErrOutOfBounds)
	}
	d.status = StatusRunning
	return nil
}

// Status returns where the current run is.
func (d *Driver) Status() Status { return d.status }

// Err returns the fault that ended the run, if any.
func (d *Driver) Err() error { return d.err }

// Steps returns how many instructions the current run has executed.
func (d *Driver) Steps() int { return d.steps }

// RunID returns the identifier of the current run, or "" before Start.
func (d *Driver) RunID() string { return d.runID }

// Program returns the grid of the current run, or nil before Start.
func (d *Driver) Program() *program.Program { return d.prog }

// Pointers returns the instruction pointer of every live thread.
func (d *Driver) Pointers() []program.Location {
	if d.machine == nil {
		return nil
	}
	var out []program.Location
	for _, t := range d.machine.Threads() {
		if ip, ok := t.InstructionPointer(); ok {
			out = append(out, ip)
		}
	}
	return out
}

// uniqueName returns base the first time it is asked for in a run and
// base#n after that, so observers keyed by name see distinct threads.
func (d *Driver) uniqueName(base string) string {
	n := d.names[base] + 1
	d.names[base] = n
	if n == 1 {
		return base
	}
	return fmt.Sprintf("%s#%d", base, n)
}

func (d *Driver) settle() {
	if d.machine.IsRunning() {
		return
	}
	reason := events.RunReasonWaiting
	d.status = StatusWaiting
	if d.machine.IsFinished() {
		reason = events.RunReasonFinished
		d.status = StatusFinished
	}
	d.flush()
	events.Run.Settle(reason, d.steps)
}

func (d *Driver) fault(err error) {
	d.status = StatusFaulted
	d.err = err
	d.flush()
	logging.Error(err)
	events.Run.Fault(err)
	events.Run.Settle(events.RunReasonFaulted, d.steps)
}

func (d *Driver) stop(reason events.RunReason) {
	d.status = StatusStopped
	d.flush()
	events.Run.Stop(reason)
}

func (d *Driver) flush() {
	if d.opts.ImmediateSync || d.prog == nil {
		return
	}
	if err := d.prog.Flush(); err != nil {
		logging.Error(fmt.Errorf("flush program: %w", err))
	}
}
