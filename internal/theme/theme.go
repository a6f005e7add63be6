package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Title         *lipgloss.Style
	Label         *lipgloss.Style
	Dim           *lipgloss.Style
	Accent        *lipgloss.Style
	Battery       *lipgloss.Style
	Steps         *lipgloss.Style
	Heart         *lipgloss.Style
	BarFilled     *lipgloss.Style
	BarEmpty      *lipgloss.Style
	Spinner       *lipgloss.Style
	Error         *lipgloss.Style
	Info          *lipgloss.Style
	Footer        *lipgloss.Style
	MainFrame     *lipgloss.Style
	HeartFrame    *lipgloss.Style
	ActivityFrame *lipgloss.Style
}

var defaultStyles = Styles{
	Title: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true),
	),
	Label: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
	),
	Dim: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
	),
	Accent: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	Battery: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
	),
	Steps: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("#44FF44")),
	),
	Heart: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444")).Bold(true),
	),
	BarFilled: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("#44FF44")),
	),
	BarEmpty: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	Spinner: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	MainFrame: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#333333")).Padding(0, 2),
	),
	HeartFrame: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#FF4444")).Padding(0, 2),
	),
	ActivityFrame: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#44FF44")).Padding(0, 2),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
