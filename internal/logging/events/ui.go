package events

import "github.com/atomicstack/volute/internal/logging"

type UITracer struct{}

type FinderTracer struct{}

var (
	UI     = UITracer{}
	Finder = FinderTracer{}
)

func (UITracer) Key(key, action string) {
	logging.Trace("ui.key", map[string]interface{}{"key": key, "action": action})
}

func (UITracer) Mouse(x, y int, location string) {
	logging.Trace("ui.mouse", map[string]interface{}{"x": x, "y": y, "location": location})
}

func (FinderTracer) Open(words int) {
	logging.Trace("finder.open", map[string]interface{}{"words": words})
}

func (FinderTracer) Filter(query string, matches int) {
	logging.Trace("finder.filter", map[string]interface{}{"query": query, "matches": matches})
}

func (FinderTracer) Spawn(word, location string) {
	logging.Trace("finder.spawn", map[string]interface{}{"word": word, "location": location})
}

func (FinderTracer) Cancel() {
	logging.Trace("finder.cancel", nil)
}
