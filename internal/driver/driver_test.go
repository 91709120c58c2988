package driver

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/atomicstack/volute/internal/debugview"
	"github.com/atomicstack/volute/internal/logging"
	"github.com/atomicstack/volute/internal/program"
	"github.com/atomicstack/volute/internal/textbuf"
	"github.com/atomicstack/volute/internal/vm"
)

// withLogFile keeps fault logging out of the package directory.
func withLogFile(t *testing.T) {
	t.Helper()
	logging.Configure(filepath.Join(t.TempDir(), "volute.log"))
	t.Cleanup(func() {
		logging.Configure("")
		logging.SetRunID("")
	})
}

func TestRunFinishesAndFlushes(t *testing.T) {
	buf := textbuf.NewFromString("🐌\nl#a m+3 s#a h\n#a5")
	d := New(buf, Options{})
	d.Start()
	if d.Status() != StatusRunning {
		t.Fatalf("expected running, got %s", d.Status())
	}
	if d.RunID() == "" {
		t.Fatalf("expected a run id")
	}
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if d.Status() != StatusFinished {
		t.Fatalf("expected finished, got %s", d.Status())
	}
	if d.Steps() != 4 {
		t.Fatalf("expected 4 steps, got %d", d.Steps())
	}
	if got := buf.Text(); got != "🐌\nl#a m+3 s#a h\n#a8" {
		t.Fatalf("expected flushed buffer, got %q", got)
	}
}

func TestDeferredSyncLeavesBufferUntilSettle(t *testing.T) {
	buf := textbuf.NewFromString("🐌\nl#a m+1 s#a h\n#a1")
	d := New(buf, Options{})
	d.Start()
	for i := 0; i < 3; i++ {
		if err := d.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := buf.Text(); got != "🐌\nl#a m+1 s#a h\n#a1" {
		t.Fatalf("expected buffer untouched mid-run, got %q", got)
	}
	if got := d.Program().Text(); got != "🐌\nl#a m+1 s#a h\n#a2" {
		t.Fatalf("expected program edited, got %q", got)
	}
}

func TestImmediateSync(t *testing.T) {
	buf := textbuf.NewFromString("🐌\nl#a m+1 s#a h\n#a1")
	d := New(buf, Options{ImmediateSync: true})
	d.Start()
	for i := 0; i < 3; i++ {
		if err := d.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := buf.Text(); got != "🐌\nl#a m+1 s#a h\n#a2" {
		t.Fatalf("expected buffer edited mid-run, got %q", got)
	}
}

func TestNoEntryPointFinishes(t *testing.T) {
	d := New(textbuf.NewFromString("just a post"), Options{})
	d.Start()
	if d.Status() != StatusFinished {
		t.Fatalf("expected finished, got %s", d.Status())
	}
	if err := d.Step(); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
}

func TestFaultEndsRun(t *testing.T) {
	withLogFile(t)
	buf := textbuf.NewFromString("🐌\nl#a=5 s#a m+3 h")
	d := New(buf, Options{})
	d.Start()
	err := d.Run(context.Background())
	var fault *vm.Fault
	if !errors.As(err, &fault) {
		t.Fatalf("expected a fault, got %v", err)
	}
	if !errors.Is(d.Err(), vm.ErrStackUnderflow) {
		t.Fatalf("expected ErrStackUnderflow, got %v", d.Err())
	}
	if d.Status() != StatusFaulted {
		t.Fatalf("expected faulted, got %s", d.Status())
	}
	if _, err := d.Click(program.Location{}); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted after fault, got %v", err)
	}
}

func TestStepLimit(t *testing.T) {
	d := New(textbuf.NewFromString("🐌\n#loop J#loop"), Options{MaxSteps: 10})
	d.Start()
	err := d.Run(context.Background())
	if !errors.Is(err, ErrStepLimit) {
		t.Fatalf("expected ErrStepLimit, got %v", err)
	}
	if d.Status() != StatusStopped || d.Steps() != 10 {
		t.Fatalf("expected stopped after 10 steps, got %s after %d", d.Status(), d.Steps())
	}
}

func TestRunCanceled(t *testing.T) {
	d := New(textbuf.NewFromString("🐌\n#loop J#loop"), Options{})
	d.Start()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if d.Status() != StatusStopped {
		t.Fatalf("expected stopped, got %s", d.Status())
	}
}

func TestClickSpawnsHandlers(t *testing.T) {
	buf := textbuf.NewFromString("🐌\nh\nMOUSE s#at h\nMOUSE2 h\n#at")
	view := debugview.New()
	d := New(buf, Options{Observer: view})
	d.Start()
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if d.Status() != StatusWaiting {
		t.Fatalf("expected waiting, got %s", d.Status())
	}

	started, err := d.Click(program.Location{Row: 1, Col: 0})
	if err != nil {
		t.Fatalf("click: %v", err)
	}
	if started != 2 {
		t.Fatalf("expected 2 handler threads, got %d", started)
	}
	states := view.States()
	if len(states) != 2 || states[0].Name != "mouse:2:1" || states[1].Name != "mouse:2:1#2" {
		t.Fatalf("unexpected threads %#v", states)
	}
	if states[0].Memory[0] != "2:1" {
		t.Fatalf("expected click location as input, got %q", states[0].Memory)
	}
	if len(d.Pointers()) != 2 {
		t.Fatalf("expected 2 pointers, got %v", d.Pointers())
	}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run after click: %v", err)
	}
	if got := buf.Text(); got != "🐌\nh\nMOUSE s#at h\nMOUSE2 h\n#at2:1" {
		t.Fatalf("expected handler to record the click, got %q", got)
	}
	if d.Status() != StatusWaiting {
		t.Fatalf("expected waiting again, got %s", d.Status())
	}
}

func TestRepeatedClicksGetDistinctNames(t *testing.T) {
	view := debugview.New()
	d := New(textbuf.NewFromString("🐌\nh\nMOUSE h"), Options{Observer: view})
	d.Start()
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := d.Click(program.Location{Row: 1, Col: 0}); err != nil {
			t.Fatalf("click: %v", err)
		}
	}
	states := view.States()
	if len(states) != len(d.Pointers()) {
		t.Fatalf("expected one row per live thread (%d), got %#v", len(d.Pointers()), states)
	}
	if len(states) != 2 || states[0].Name != "mouse:2:1" || states[1].Name != "mouse:2:1#2" {
		t.Fatalf("unexpected threads %#v", states)
	}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run after clicks: %v", err)
	}
	if len(view.States()) != 0 {
		t.Fatalf("expected every row to end, got %#v", view.States())
	}

	// names start over with each run
	view.Reset()
	d.Start()
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := d.Click(program.Location{Row: 1, Col: 0}); err != nil {
		t.Fatalf("click: %v", err)
	}
	if states := view.States(); len(states) != 1 || states[0].Name != "mouse:2:1" {
		t.Fatalf("unexpected threads after restart %#v", states)
	}
}

func TestStopAndRestart(t *testing.T) {
	buf := textbuf.NewFromString("🐌\n#loop J#loop")
	d := New(buf, Options{})
	if _, err := d.Click(program.Location{}); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted before start, got %v", err)
	}
	d.Start()
	first := d.RunID()
	d.Stop()
	if d.Status() != StatusStopped {
		t.Fatalf("expected stopped, got %s", d.Status())
	}
	if err := d.Run(context.Background()); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted after stop, got %v", err)
	}
	d.Start()
	if d.RunID() == first {
		t.Fatalf("expected a fresh run id")
	}
	if d.Status() != StatusRunning {
		t.Fatalf("expected running, got %s", d.Status())
	}
}

func TestStartThread(t *testing.T) {
	withLogFile(t)
	d := New(textbuf.NewFromString("🐌\nh\n#label w h"), Options{})
	if err := d.StartThread("label:#label", program.Location{Row: 2}); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	d.Start()
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := d.StartThread("off", program.Location{Row: 9}); !errors.Is(err, program.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	// a finished run still accepts explicit threads
	if err := d.StartThread("label:#label", program.Location{Row: 2}); err != nil {
		t.Fatalf("start thread: %v", err)
	}
	if d.Status() != StatusRunning {
		t.Fatalf("expected running, got %s", d.Status())
	}
	err := d.Run(context.Background())
	if !errors.Is(err, vm.ErrStackUnderflow) {
		t.Fatalf("expected underflow from w, got %v", err)
	}
}
