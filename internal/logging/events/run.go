package events

import "github.com/atomicstack/volute/internal/logging"

type RunTracer struct{}

// RunReason says why a run settled or stopped.
type RunReason string

const (
	RunReasonFinished RunReason = "finished"
	RunReasonWaiting  RunReason = "waiting"
	RunReasonFaulted  RunReason = "faulted"
	RunReasonLimit    RunReason = "step-limit"
	RunReasonCanceled RunReason = "canceled"
	RunReasonStopped  RunReason = "stopped"
)

var Run = RunTracer{}

func (RunTracer) Start(entry string, handlers int) {
	logging.Trace("run.start", map[string]interface{}{"entry": entry, "handlers": handlers})
}

func (RunTracer) Settle(reason RunReason, steps int) {
	logging.Trace("run.settle", map[string]interface{}{"reason": string(reason), "steps": steps})
}

func (RunTracer) Fault(err error) {
	if err == nil {
		return
	}
	logging.Trace("run.fault", map[string]interface{}{"error": err.Error()})
}

func (RunTracer) Stop(reason RunReason) {
	logging.Trace("run.stop", map[string]interface{}{"reason": string(reason)})
}

func (RunTracer) Click(location string, handlers int) {
	logging.Trace("run.click", map[string]interface{}{"location": location, "handlers": handlers})
}
