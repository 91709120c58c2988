package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI and the
// debug panel.
type Styles struct {
	Program        *lipgloss.Style
	Instruction    *lipgloss.Style
	Header         *lipgloss.Style
	Status         *lipgloss.Style
	StatusRunning  *lipgloss.Style
	StatusWaiting  *lipgloss.Style
	StatusFinished *lipgloss.Style
	Error          *lipgloss.Style
	Info           *lipgloss.Style
	Help           *lipgloss.Style
	Panel          *lipgloss.Style
	PanelTitle     *lipgloss.Style
	ThreadName     *lipgloss.Style
	Memory         *lipgloss.Style
	FinderPrompt   *lipgloss.Style
	FinderItem     *lipgloss.Style
	FinderSelected *lipgloss.Style
	Placeholder    *lipgloss.Style
}

var defaultStyles = Styles{
	Program: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Instruction: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Bold(true),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Status: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	StatusRunning: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	StatusWaiting: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	StatusFinished: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Help: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Panel: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
	),
	PanelTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	ThreadName: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	Memory: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	FinderPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FinderItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FinderSelected: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Placeholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
