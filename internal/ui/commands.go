package ui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/volute/internal/driver"
)

// tickMsg paces fast-forward; one instruction runs per tick.
type tickMsg struct {
	at time.Time
}

// runRequestMsg asks for a run to settle, as on start without the debugger.
type runRequestMsg struct{}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg{at: t}
	})
}

func (m *Model) step() {
	if m.drv.Status() != driver.StatusRunning {
		m.setInfo(fmt.Sprintf("Nothing to step: %s.", m.drv.Status()))
		return
	}
	m.noteStepError(m.drv.Step())
}

// runToSettle steps until nothing is live, up to runBudget steps.
func (m *Model) runToSettle() {
	for i := 0; i < runBudget; i++ {
		if m.drv.Status() != driver.StatusRunning {
			return
		}
		if err := m.drv.Step(); err != nil {
			m.noteStepError(err)
			return
		}
	}
	m.setInfo(fmt.Sprintf("Paused after %d steps.", runBudget))
}

func (m *Model) toggleFastForward() tea.Cmd {
	if m.fastForward {
		m.fastForward = false
		return nil
	}
	if m.drv.Status() != driver.StatusRunning {
		m.setInfo(fmt.Sprintf("Nothing to run: %s.", m.drv.Status()))
		return nil
	}
	m.fastForward = true
	return m.tickCmd()
}

func (m *Model) handleTickMsg(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tickMsg); !ok || !m.fastForward {
		return nil
	}
	if m.drv.Status() != driver.StatusRunning {
		m.fastForward = false
		return nil
	}
	if err := m.drv.Step(); err != nil {
		m.noteStepError(err)
		m.fastForward = false
		return nil
	}
	if m.drv.Status() != driver.StatusRunning {
		m.fastForward = false
		return nil
	}
	return m.tickCmd()
}

func (m *Model) handleRunRequestMsg(msg tea.Msg) tea.Cmd {
	m.runToSettle()
	return nil
}

func (m *Model) restart() tea.Cmd {
	m.debug.Reset()
	m.errMsg = ""
	m.drv.Start()
	m.setInfo("Restarted.")
	if !m.showDebug {
		m.runToSettle()
	}
	return nil
}

func (m *Model) noteStepError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, driver.ErrNotStarted) {
		m.setInfo("No run in progress.")
		return
	}
	m.errMsg = err.Error()
}
