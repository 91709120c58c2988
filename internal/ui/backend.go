package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/volute/internal/backend"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		return tea.Batch(cmd, waitForBackendEvent(m.backend))
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent swaps in the new program text and starts over.
func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	if evt.Err != nil {
		m.errMsg = evt.Err.Error()
		return nil
	}
	if evt.Kind != backend.KindSource {
		return nil
	}
	m.fastForward = false
	if m.finding {
		m.closeFinder()
	}
	m.buf.SetText(evt.Data)
	cmd := m.restart()
	m.setInfo("Reloaded.")
	return cmd
}
