package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherEmitsChangedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.txt")
	if err := os.WriteFile(path, []byte("🐌\nh"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := NewWatcher(path, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer func() {
		w.Stop()
		w.Wait()
	}()

	if err := os.WriteFile(path, []byte("🐌\nl#a h"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case evt, ok := <-w.Events():
			if !ok {
				t.Fatalf("events closed early")
			}
			if evt.Err != nil {
				t.Fatalf("unexpected error: %v", evt.Err)
			}
			if evt.Kind != KindSource {
				t.Fatalf("expected KindSource, got %v", evt.Kind)
			}
			if evt.Data == "🐌\nl#a h" {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for reload")
		}
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counter.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := NewWatcher(path, 0)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("y"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	select {
	case evt := <-w.Events():
		t.Fatalf("expected no event, got %#v", evt)
	case <-time.After(200 * time.Millisecond):
	}
	w.Stop()
	w.Wait()
	if _, ok := <-w.Events(); ok {
		t.Fatalf("expected events to close after Stop")
	}
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "p.txt"), 0); err == nil {
		t.Fatalf("expected an error for a missing directory")
	}
}

func TestThrottleSpacesCalls(t *testing.T) {
	ctx := context.Background()
	th := newThrottle(30 * time.Millisecond)
	start := time.Now()
	for i := 0; i < 3; i++ {
		if !th.wait(ctx) {
			t.Fatalf("expected wait %d to succeed", i)
		}
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Fatalf("expected at least 60ms, got %s", elapsed)
	}
	var nilThrottle *throttle
	if !nilThrottle.wait(ctx) {
		t.Fatalf("expected nil throttle not to block")
	}
}

func TestThrottleWaitCanceled(t *testing.T) {
	th := newThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	if !th.wait(ctx) {
		t.Fatalf("expected first slot to be free")
	}
	cancel()
	if th.wait(ctx) {
		t.Fatalf("expected canceled wait to report false")
	}
}
