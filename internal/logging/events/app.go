package events

import "github.com/atomicstack/volute/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Mode(mode, source string) {
	logging.Trace("app.mode", map[string]interface{}{"mode": mode, "source": source})
}
