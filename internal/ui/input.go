package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Key codes accepted by the key command. Navigation codes follow the embedded
// keypad convention; 32-126 are sent as the printable character.
const (
	keyCodeHome      = 2
	keyCodeEnd       = 3
	keyCodeBackspace = 8
	keyCodeNext      = 9
	keyCodeEnter     = 10
	keyCodePrev      = 11
	keyCodeReturn    = 13
	keyCodeUp        = 17
	keyCodeDown      = 18
	keyCodeRight     = 19
	keyCodeLeft      = 20
	keyCodeEsc       = 27
	keyCodeDelete    = 127
)

var specialKeys = map[uint32]tea.KeyType{
	keyCodeHome:      tea.KeyHome,
	keyCodeEnd:       tea.KeyEnd,
	keyCodeBackspace: tea.KeyBackspace,
	keyCodeNext:      tea.KeyTab,
	keyCodeEnter:     tea.KeyEnter,
	keyCodePrev:      tea.KeyShiftTab,
	keyCodeReturn:    tea.KeyEnter,
	keyCodeUp:        tea.KeyUp,
	keyCodeDown:      tea.KeyDown,
	keyCodeRight:     tea.KeyRight,
	keyCodeLeft:      tea.KeyLeft,
	keyCodeEsc:       tea.KeyEsc,
	keyCodeDelete:    tea.KeyDelete,
}

// keyMsgForCode translates a remote key code into the message a terminal
// would have produced for the same key.
func keyMsgForCode(code uint32) (tea.KeyMsg, bool) {
	if t, ok := specialKeys[code]; ok {
		return tea.KeyMsg{Type: t}, true
	}
	if code == ' ' {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, true
	}
	if code > ' ' && code < 127 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{rune(code)}}, true
	}
	return tea.KeyMsg{}, false
}

type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	Select   key.Binding
	Next     key.Binding
	Prev     key.Binding
	Measure  key.Binding
	Registry key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "swipe left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "swipe right")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "swipe up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "swipe down")),
		Home:     key.NewBinding(key.WithKeys("esc", "home", "backspace"), key.WithHelp("esc", "home")),
		Select:   key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "select")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next screen")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous screen")),
		Measure:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "measure")),
		Registry: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "registry")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	m.applyKey(msg.(tea.KeyMsg), false)
	return nil
}

// applyKey performs the action bound to msg. Remote keys never quit the
// program.
func (m *Model) applyKey(msg tea.KeyMsg, remote bool) bool {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		if remote {
			return false
		}
		m.quitting = true
	case key.Matches(msg, k.Left):
		m.gesture(-dragThreshold-1, 0)
	case key.Matches(msg, k.Right):
		m.gesture(dragThreshold+1, 0)
	case key.Matches(msg, k.Up):
		m.gesture(0, -dragThreshold-1)
	case key.Matches(msg, k.Down):
		m.gesture(0, dragThreshold+1)
	case key.Matches(msg, k.Home):
		m.showScreen(screenMain)
	case key.Matches(msg, k.Select):
		m.selectPrimary()
	case key.Matches(msg, k.Next):
		m.showScreen((m.active + 1) % 3)
	case key.Matches(msg, k.Prev):
		m.showScreen((m.active + 2) % 3)
	case key.Matches(msg, k.Measure):
		m.startMeasurement()
	case key.Matches(msg, k.Registry):
		m.showRegistry = !m.showRegistry
	default:
		return false
	}
	return true
}

// selectPrimary triggers the main action of the active screen.
func (m *Model) selectPrimary() {
	switch m.active {
	case screenMain:
		m.openHeartRate()
	case screenHeartRate:
		m.startMeasurement()
	case screenActivity:
		m.showScreen(screenMain)
	}
}
