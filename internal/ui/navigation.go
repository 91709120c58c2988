package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/volute/internal/logging/events"
	uistate "github.com/atomicstack/volute/internal/ui/state"
)

const finderMaxVisible = 8

func (m *Model) openFinder() tea.Cmd {
	prog := m.drv.Program()
	if prog == nil {
		m.setInfo("No program loaded.")
		return nil
	}
	items := uistate.ItemsFromWords(prog.Words())
	m.finder = uistate.NewFinder(items)
	m.finding = true
	m.finderInput.Reset()
	events.Finder.Open(len(items))
	m.finderInput.Focus()
	return nil
}

func (m *Model) closeFinder() {
	m.finding = false
	m.finder = nil
	m.finderInput.Blur()
	m.finderInput.Reset()
}

func (m *Model) handleFinderKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.FinderCancel):
		events.Finder.Cancel()
		m.closeFinder()
		return nil
	case key.Matches(msg, m.keys.FinderUp):
		m.finder.MoveCursorUp()
		m.finder.EnsureCursorVisible(finderMaxVisible)
		return nil
	case key.Matches(msg, m.keys.FinderDown):
		m.finder.MoveCursorDown()
		m.finder.EnsureCursorVisible(finderMaxVisible)
		return nil
	case key.Matches(msg, m.keys.FinderAccept):
		return m.acceptFinder()
	}
	return m.updateFinderInput(msg)
}

func (m *Model) updateFinderInput(msg tea.Msg) tea.Cmd {
	before := m.finderInput.Value()
	var cmd tea.Cmd
	m.finderInput, cmd = m.finderInput.Update(msg)
	if query := m.finderInput.Value(); query != before {
		m.finder.SetFilter(query)
		m.finder.EnsureCursorVisible(finderMaxVisible)
		events.Finder.Filter(query, len(m.finder.Items))
	}
	return cmd
}

// acceptFinder starts a thread at the chosen word, named after it.
func (m *Model) acceptFinder() tea.Cmd {
	item, ok := m.finder.Current()
	m.closeFinder()
	if !ok {
		return nil
	}
	name := "label:" + item.Label
	events.Finder.Spawn(item.Label, item.Location.String())
	if err := m.drv.StartThread(name, item.Location); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	m.setInfo(fmt.Sprintf("Started %s at %s.", name, item.Location))
	if !m.showDebug {
		m.runToSettle()
	}
	return nil
}
