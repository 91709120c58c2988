package events

import "github.com/atomicstack/volute/internal/logging"

type WatchTracer struct{}

var Watch = WatchTracer{}

func (WatchTracer) Reload(path string, size int) {
	logging.Trace("watch.reload", map[string]interface{}{"path": path, "size": size})
}

func (WatchTracer) Error(path string, err error) {
	if err == nil {
		return
	}
	logging.Trace("watch.error", map[string]interface{}{"path": path, "error": err.Error()})
}
