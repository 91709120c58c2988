package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/atomicstack/volute/internal/backend"
	"github.com/atomicstack/volute/internal/debugview"
	"github.com/atomicstack/volute/internal/driver"
	"github.com/atomicstack/volute/internal/program"
	"github.com/atomicstack/volute/internal/textbuf"
)

type fixture struct {
	buf     *textbuf.Buffer
	drv     *driver.Driver
	debug   *debugview.View
	harness *Harness
}

func newFixture(t *testing.T, src string, showDebug bool) *fixture {
	t.Helper()
	buf := textbuf.NewFromString(src)
	view := debugview.New()
	drv := driver.New(buf, driver.Options{ImmediateSync: showDebug, Observer: view})
	drv.Start()
	model := NewModel(Options{
		Buffer:    buf,
		Driver:    drv,
		Debug:     view,
		Interval:  time.Millisecond,
		ShowDebug: showDebug,
		Width:     80,
		Height:    24,
	})
	return &fixture{buf: buf, drv: drv, debug: view, harness: NewHarness(model)}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (f *fixture) view() string {
	return ansi.Strip(f.harness.View())
}

func TestInitRunsToSettleWithoutDebugger(t *testing.T) {
	f := newFixture(t, "🐌\nl#a m+3 s#a h\n#a5", false)
	f.harness.processCmd(f.harness.Model().Init())

	if f.drv.Status() != driver.StatusFinished {
		t.Fatalf("expected finished, got %s", f.drv.Status())
	}
	if got := f.buf.Text(); got != "🐌\nl#a m+3 s#a h\n#a8" {
		t.Fatalf("expected flushed program, got %q", got)
	}
	if view := f.view(); !strings.Contains(view, "#a8") || !strings.Contains(view, "finished") {
		t.Fatalf("expected result and status in view, got\n%s", view)
	}
}

func TestStepKeyAdvancesOneInstruction(t *testing.T) {
	f := newFixture(t, "🐌\nl#a m+3 s#a h\n#a5", true)
	if cmd := f.harness.Model().Init(); cmd != nil {
		t.Fatalf("expected no startup command with the debugger shown")
	}
	f.harness.Send(runes("n"))
	if f.drv.Steps() != 1 {
		t.Fatalf("expected 1 step, got %d", f.drv.Steps())
	}
	view := f.view()
	if !strings.Contains(view, "main") || !strings.Contains(view, "[5]") {
		t.Fatalf("expected debug panel to show main with [5], got\n%s", view)
	}
	if !strings.Contains(view, "running  steps 1  threads 1") {
		t.Fatalf("expected status line, got\n%s", view)
	}

	f.harness.Send(runes("r"))
	if f.drv.Status() != driver.StatusFinished {
		t.Fatalf("expected finished after run, got %s", f.drv.Status())
	}
	if !strings.Contains(f.view(), "Nothing is running.") {
		t.Fatalf("expected empty debug panel, got\n%s", f.view())
	}

	f.harness.Send(runes("n"))
	if !strings.Contains(f.view(), "Nothing to step: finished.") {
		t.Fatalf("expected step to report finished, got\n%s", f.view())
	}
}

func TestFastForwardRunsUntilSettled(t *testing.T) {
	f := newFixture(t, "🐌\nl#a m+3 s#a h\n#a5", true)
	f.harness.Send(runes("f"))
	if f.drv.Status() != driver.StatusFinished {
		t.Fatalf("expected finished, got %s", f.drv.Status())
	}
	if f.drv.Steps() != 4 {
		t.Fatalf("expected 4 steps, got %d", f.drv.Steps())
	}
	if f.harness.Model().fastForward {
		t.Fatalf("expected fast-forward to switch off")
	}
}

func TestFaultShowsError(t *testing.T) {
	withLogFile(t)
	f := newFixture(t, "🐌\nu h", true)
	f.harness.Send(runes("n"))
	if f.drv.Status() != driver.StatusFaulted {
		t.Fatalf("expected faulted, got %s", f.drv.Status())
	}
	if !strings.Contains(f.view(), "Error:") {
		t.Fatalf("expected error line, got\n%s", f.view())
	}
	f.harness.Send(runes("n"))
	if got := f.harness.Model().currentInfo(); got != "Nothing to step: faulted." {
		t.Fatalf("expected faulted notice, got %q", got)
	}
}

func TestStopAndRestartKeys(t *testing.T) {
	f := newFixture(t, "🐌\nl#a m+3 s#a h\n#a5", true)
	f.harness.Send(runes("n"))
	f.harness.Send(runes("x"))
	if f.drv.Status() != driver.StatusStopped {
		t.Fatalf("expected stopped, got %s", f.drv.Status())
	}
	first := f.drv.RunID()
	f.harness.Send(runes("s"))
	if f.drv.Status() != driver.StatusRunning || f.drv.Steps() != 0 {
		t.Fatalf("expected a fresh run, got %s after %d steps", f.drv.Status(), f.drv.Steps())
	}
	if f.drv.RunID() == first {
		t.Fatalf("expected a new run id")
	}
	if states := f.debug.States(); len(states) != 1 || states[0].Name != "main" {
		t.Fatalf("expected only the new main thread, got %#v", states)
	}
}

func TestQuitKey(t *testing.T) {
	f := newFixture(t, "🐌\nh", true)
	_, cmd := f.harness.Model().Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestWindowSizeTruncatesLines(t *testing.T) {
	buf := textbuf.NewFromString("🐌\n" + strings.Repeat("w", 50) + " h")
	drv := driver.New(buf, driver.Options{ImmediateSync: true})
	drv.Start()
	h := NewHarness(NewModel(Options{Buffer: buf, Driver: drv, ShowDebug: true}))
	h.Send(tea.WindowSizeMsg{Width: 20, Height: 30})
	for _, line := range strings.Split(h.View(), "\n") {
		if w := ansi.StringWidth(line); w > 20 {
			t.Fatalf("expected lines within 20 cells, got %d: %q", w, ansi.Strip(line))
		}
	}
}

func TestSmallHeightElidesProgram(t *testing.T) {
	src := "🐌\n" + strings.Repeat("x\n", 30) + "h"
	buf := textbuf.NewFromString(src)
	drv := driver.New(buf, driver.Options{})
	drv.Start()
	h := NewHarness(NewModel(Options{Buffer: buf, Driver: drv, Width: 40, Height: 12}))
	lines := strings.Split(h.View(), "\n")
	if len(lines) > 12 {
		t.Fatalf("expected at most 12 lines, got %d", len(lines))
	}
	if !strings.Contains(ansi.Strip(h.View()), "…") {
		t.Fatalf("expected elided program")
	}
}

func TestBackendReloadRestarts(t *testing.T) {
	f := newFixture(t, "🐌\nl#a m+3 s#a h\n#a5", false)
	f.harness.processCmd(f.harness.Model().Init())

	f.harness.Send(backendEventMsg{event: backend.Event{Kind: backend.KindSource, Data: "🐌\nl#b m+1 s#b h\n#b1"}})
	if got := f.buf.Text(); got != "🐌\nl#b m+1 s#b h\n#b2" {
		t.Fatalf("expected reloaded program to run, got %q", got)
	}
	if !strings.Contains(f.view(), "Reloaded.") {
		t.Fatalf("expected reload notice, got\n%s", f.view())
	}

	f.harness.Send(backendEventMsg{event: backend.Event{Kind: backend.KindSource, Err: errors.New("permission denied")}})
	if !strings.Contains(f.view(), "Error: permission denied") {
		t.Fatalf("expected watch error, got\n%s", f.view())
	}
}

func TestBackendDoneDetachesWatcher(t *testing.T) {
	f := newFixture(t, "🐌\nh", true)
	f.harness.Send(backendDoneMsg{})
	if f.harness.Model().backend != nil {
		t.Fatalf("expected watcher to be dropped")
	}
}

func TestHitTestCountsWideLetters(t *testing.T) {
	f := newFixture(t, "🐌a\nhi", true)
	m := f.harness.Model()
	top := m.programTop()
	tests := []struct {
		x, y int
		want program.Location
		ok   bool
	}{
		{0, top, program.Location{Row: 0, Col: 0}, true},
		{1, top, program.Location{Row: 0, Col: 0}, true},
		{2, top, program.Location{Row: 0, Col: 1}, true},
		{3, top, program.Location{}, false},
		{1, top + 1, program.Location{Row: 1, Col: 1}, true},
		{0, top - 1, program.Location{}, false},
		{0, top + 2, program.Location{}, false},
	}
	for _, tt := range tests {
		got, ok := m.hitTest(tt.x, tt.y)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("hitTest(%d, %d): expected %v (%v), got %v (%v)", tt.x, tt.y, tt.want, tt.ok, got, ok)
		}
	}
}

func TestClickStartsHandler(t *testing.T) {
	f := newFixture(t, "🐌\nh\nMOUSE s#at h\n#at", false)
	f.harness.processCmd(f.harness.Model().Init())
	if f.drv.Status() != driver.StatusWaiting {
		t.Fatalf("expected waiting, got %s", f.drv.Status())
	}

	top := f.harness.Model().programTop()
	f.harness.Send(tea.MouseMsg{X: 0, Y: top + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := f.buf.Text(); got != "🐌\nh\nMOUSE s#at h\n#at2:1" {
		t.Fatalf("expected handler to record the click, got %q", got)
	}
	if f.drv.Status() != driver.StatusWaiting {
		t.Fatalf("expected waiting again, got %s", f.drv.Status())
	}

	before := f.buf.Text()
	f.harness.Send(tea.MouseMsg{X: 0, Y: top + 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	f.harness.Send(tea.MouseMsg{X: 70, Y: top, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if f.buf.Text() != before {
		t.Fatalf("expected releases and misses to be ignored, got %q", f.buf.Text())
	}
}

func TestFinderStartsThreadAtWord(t *testing.T) {
	f := newFixture(t, "🐌\nh\n\ngo l#n m+1 s#n h\n#n0", false)
	f.harness.processCmd(f.harness.Model().Init())
	if f.drv.Status() != driver.StatusFinished {
		t.Fatalf("expected finished, got %s", f.drv.Status())
	}

	f.harness.Send(runes("/"))
	if !f.harness.Model().finding {
		t.Fatalf("expected finder to open")
	}
	f.harness.Send(runes("go"))
	if cur, ok := f.harness.Model().finder.Current(); !ok || cur.Label != "go" {
		t.Fatalf("expected go under the cursor, got %#v", cur)
	}
	if !strings.Contains(f.view(), "go  4:1") {
		t.Fatalf("expected finder row, got\n%s", f.view())
	}

	f.harness.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if f.harness.Model().finding {
		t.Fatalf("expected finder to close")
	}
	if got := f.buf.Text(); got != "🐌\nh\n\ngo l#n m+1 s#n h\n#n1" {
		t.Fatalf("expected label thread to run, got %q", got)
	}
}

func TestFinderCancel(t *testing.T) {
	f := newFixture(t, "🐌\nh", true)
	f.harness.Send(runes("/"))
	f.harness.Send(runes("zz"))
	if !strings.Contains(f.view(), `No matches for "zz"`) {
		t.Fatalf("expected empty finder, got\n%s", f.view())
	}
	f.harness.Send(tea.KeyMsg{Type: tea.KeyEsc})
	if f.harness.Model().finding {
		t.Fatalf("expected finder to close")
	}
	if f.drv.Steps() != 0 {
		t.Fatalf("expected keys typed into the finder not to step, got %d", f.drv.Steps())
	}
}
