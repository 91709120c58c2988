package backend

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicstack/volute/internal/logging/events"
)

// Kind represents the type of data emitted by the watcher.
type Kind int

const (
	KindSource Kind = iota
)

// Event conveys new program text or an error from the watcher.
type Event struct {
	Kind Kind
	Data string
	Err  error
}

// Watcher follows a program file and publishes its content whenever it
// changes. Bursts of writes are coalesced to at most one read per interval.
type Watcher struct {
	path     string
	interval time.Duration
	fsw      *fsnotify.Watcher

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts watching path. The parent directory is watched so that
// editors replacing the file are noticed too.
func NewWatcher(path string, interval time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		interval: interval,
		fsw:      fsw,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}
	last, _ := os.ReadFile(abs)

	w.wg.Add(1)
	go w.loop(last)

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w, nil
}

// Events returns a channel of watcher events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher; use Wait if a clean drain is required.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the watch loop has exited and the events channel is
// closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) loop(last []byte) {
	defer w.wg.Done()
	defer w.fsw.Close()

	throttle := newThrottle(w.interval)
	emit := func(evt Event) bool {
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	for {
		select {
		case <-w.ctx.Done():
			return
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			events.Watch.Error(w.path, err)
			if !emit(Event{Kind: KindSource, Err: err}) {
				return
			}
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if !throttle.wait(w.ctx) {
				return
			}
			data, err := os.ReadFile(w.path)
			if err != nil {
				events.Watch.Error(w.path, err)
				if !emit(Event{Kind: KindSource, Err: err}) {
					return
				}
				continue
			}
			if bytes.Equal(data, last) {
				continue
			}
			last = data
			events.Watch.Reload(w.path, len(data))
			if !emit(Event{Kind: KindSource, Data: string(data)}) {
				return
			}
		}
	}
}
