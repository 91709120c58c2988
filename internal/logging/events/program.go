package events

import "github.com/atomicstack/volute/internal/logging"

type ProgramTracer struct{}

var Program = ProgramTracer{}

func (ProgramTracer) Edit(location string, deleted, inserted int) {
	logging.Trace("program.edit", map[string]interface{}{"location": location, "deleted": deleted, "inserted": inserted})
}

func (ProgramTracer) Line(row int) {
	logging.Trace("program.line", map[string]interface{}{"row": row})
}

// Entry records a changed entry point; an empty location means none.
func (ProgramTracer) Entry(location string) {
	logging.Trace("program.entry", map[string]interface{}{"location": location})
}
