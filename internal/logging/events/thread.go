package events

import "github.com/atomicstack/volute/internal/logging"

type ThreadTracer struct{}

var Thread = ThreadTracer{}

func (ThreadTracer) Spawn(name, location string, input []string) {
	logging.Trace("thread.spawn", map[string]interface{}{"name": name, "location": location, "input": input})
}

func (ThreadTracer) Halt(name string) {
	logging.Trace("thread.halt", map[string]interface{}{"name": name})
}

func (ThreadTracer) Fault(name, location, instruction string, err error) {
	logging.Trace("thread.fault", map[string]interface{}{
		"name":        name,
		"location":    location,
		"instruction": instruction,
		"error":       err.Error(),
	})
}
