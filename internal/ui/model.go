package ui

import (
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/volute/internal/backend"
	"github.com/atomicstack/volute/internal/debugview"
	"github.com/atomicstack/volute/internal/driver"
	"github.com/atomicstack/volute/internal/textbuf"
	"github.com/atomicstack/volute/internal/theme"
	uistate "github.com/atomicstack/volute/internal/ui/state"
)

// runBudget bounds how many steps a single run request may take, so a
// looping program cannot freeze the UI.
const runBudget = 100000

const defaultInterval = 100 * time.Millisecond

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options wires the model to one program.
type Options struct {
	Title    string
	Buffer   *textbuf.Buffer
	Driver   *driver.Driver
	Debug    *debugview.View
	Watcher  *backend.Watcher
	Interval time.Duration
	// ShowDebug enables the thread panel and instruction highlighting;
	// without it the program runs to settle on start and after every click.
	ShowDebug bool
	Width     int
	Height    int
}

// Model implements the Bubble Tea model for the volute debugger.
type Model struct {
	title     string
	buf       *textbuf.Buffer
	drv       *driver.Driver
	debug     *debugview.View
	backend   *backend.Watcher
	interval  time.Duration
	showDebug bool

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool

	keys        keyMap
	help        help.Model
	fastForward bool

	finding     bool
	finder      *uistate.Finder
	finderInput textinput.Model

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	handlers map[reflect.Type]msgHandler
}

// NewModel prepares the UI. The driver should already have been started.
func NewModel(opts Options) *Model {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	debug := opts.Debug
	if debug == nil {
		debug = debugview.New()
	}
	input := textinput.New()
	input.Prompt = "label: "
	input.Placeholder = "type to filter words"
	input.PromptStyle = *styles.FinderPrompt
	input.PlaceholderStyle = *styles.Placeholder
	input.CharLimit = 128
	input.Cursor.SetMode(cursor.CursorStatic)

	m := &Model{
		title:       opts.Title,
		buf:         opts.Buffer,
		drv:         opts.Driver,
		debug:       debug,
		backend:     opts.Watcher,
		interval:    interval,
		showDebug:   opts.ShowDebug,
		keys:        newKeyMap(),
		help:        help.New(),
		finderInput: input,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
		m.help.Width = opts.Width
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if !m.showDebug {
		cmds = append(cmds, func() tea.Msg { return runRequestMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	if m.finding {
		return m, m.updateFinderInput(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tickMsg{}):           m.handleTickMsg,
		reflect.TypeOf(runRequestMsg{}):     m.handleRunRequestMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.help.Width = m.width
	m.finderInput.Width = max(m.width-len(m.finderInput.Prompt)-1, 0)
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}
