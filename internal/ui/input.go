package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/volute/internal/logging/events"
)

type keyMap struct {
	Step        key.Binding
	FastForward key.Binding
	Run         key.Binding
	Stop        key.Binding
	Restart     key.Binding
	Find        key.Binding
	Quit        key.Binding

	FinderUp     key.Binding
	FinderDown   key.Binding
	FinderAccept key.Binding
	FinderCancel key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Step:        key.NewBinding(key.WithKeys(" ", "n"), key.WithHelp("space/n", "step")),
		FastForward: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fast-forward")),
		Run:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run")),
		Stop:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Restart:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "restart")),
		Find:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "start at label")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		FinderUp:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous")),
		FinderDown:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
		FinderAccept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start thread")),
		FinderCancel: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap for the run screen.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Step, k.FastForward, k.Run, k.Stop, k.Restart, k.Find, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// finderHelp lists the bindings active while the finder is open.
type finderHelp keyMap

func (k finderHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.FinderUp, k.FinderDown, k.FinderAccept, k.FinderCancel}
}

func (k finderHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.finding {
		return m.handleFinderKey(keyMsg)
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		events.UI.Key(keyMsg.String(), "quit")
		m.fastForward = false
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Step):
		events.UI.Key(keyMsg.String(), "step")
		m.fastForward = false
		m.step()
	case key.Matches(keyMsg, m.keys.FastForward):
		events.UI.Key(keyMsg.String(), "fast-forward")
		return m.toggleFastForward()
	case key.Matches(keyMsg, m.keys.Run):
		events.UI.Key(keyMsg.String(), "run")
		m.fastForward = false
		m.runToSettle()
	case key.Matches(keyMsg, m.keys.Stop):
		events.UI.Key(keyMsg.String(), "stop")
		m.fastForward = false
		m.drv.Stop()
		m.setInfo("Stopped.")
	case key.Matches(keyMsg, m.keys.Restart):
		events.UI.Key(keyMsg.String(), "restart")
		m.fastForward = false
		return m.restart()
	case key.Matches(keyMsg, m.keys.Find):
		events.UI.Key(keyMsg.String(), "find")
		m.fastForward = false
		return m.openFinder()
	}
	return nil
}
