package ui

import (
	"math/rand"
	"reflect"
	"time"

	"github.com/atomicstack/watch-remote/internal/command"
	"github.com/atomicstack/watch-remote/internal/pump"
	"github.com/atomicstack/watch-remote/internal/queue"
	"github.com/atomicstack/watch-remote/internal/registry"
	"github.com/atomicstack/watch-remote/internal/theme"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const watchTickInterval = time.Second

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

type commandHandler func(*command.Command)

// watchTickMsg drives the once-per-second watch update.
type watchTickMsg time.Time

// Options configures a Model.
type Options struct {
	Registry *registry.Registry
	Queue    *queue.Queue
	// TickInterval is the pump period; zero uses pump.DefaultInterval.
	TickInterval time.Duration
	// Manual disables all self-scheduling timers. Tests drive the model with
	// explicit messages instead.
	Manual  bool
	Clock   Clock
	Rand    func(n int) int
	Addr    string
	Width   int
	Height  int
	Verbose bool
}

// Model implements the Bubble Tea model for the watch UI. It owns every
// widget and is the only code that executes queued commands.
type Model struct {
	registry *registry.Registry
	queue    *queue.Queue
	pump     *pump.Pump
	tick     time.Duration
	manual   bool
	clock    Clock
	randn    func(int) int

	face   *watchFace
	active screenID

	heartRate    int
	steps        int
	calories     int
	battery      int
	measuring    bool
	measureStart time.Time
	ticks        int

	pointer command.Point

	spinner  spinner.Model
	keys     keyMap
	addr     string
	width    int
	height   int
	verbose  bool
	errMsg   string
	lastCmd  string
	executed int
	quitting bool

	showRegistry bool

	pending []tea.Cmd

	handlers map[reflect.Type]msgHandler
	commands map[command.Kind]commandHandler
}

// NewModel builds the watch UI and registers its widgets.
func NewModel(opts Options) *Model {
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	randn := opts.Rand
	if randn == nil {
		randn = rand.Intn
	}
	reg := opts.Registry
	if reg == nil {
		reg = registry.New()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Pulse
	if styles.Spinner != nil {
		sp.Style = *styles.Spinner
	}
	m := &Model{
		registry:  reg,
		queue:     opts.Queue,
		tick:      opts.TickInterval,
		manual:    opts.Manual,
		clock:     clock,
		randn:     randn,
		heartRate: 72,
		steps:     1254,
		calories:  245,
		battery:   85,
		spinner:   sp,
		keys:      defaultKeyMap(),
		addr:      opts.Addr,
		width:     opts.Width,
		height:    opts.Height,
		verbose:   opts.Verbose,
	}
	if m.tick <= 0 {
		m.tick = pump.DefaultInterval
	}
	m.pump = pump.New(opts.Queue, m)
	m.buildWatch()
	m.registerWidgets(reg)
	m.registerHandlers()
	m.registerCommands()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.manual {
		return nil
	}
	return tea.Batch(pump.Tick(m.tick), watchTick())
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(pump.TickMsg{}):      m.handlePumpTick,
		reflect.TypeOf(watchTickMsg{}):      m.handleWatchTick,
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(spinner.TickMsg{}):   m.handleSpinnerTick,
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

// queueCmd defers cmd until the current Update returns. Timer commands are
// dropped in manual mode.
func (m *Model) queueCmd(cmd tea.Cmd) {
	if cmd == nil || m.manual {
		return
	}
	m.pending = append(m.pending, cmd)
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if len(m.pending) > 0 {
		cmds = append(cmds, m.pending...)
		m.pending = m.pending[:0]
	}
	if m.quitting {
		cmds = append(cmds, tea.Quit)
	}
	if len(cmds) == 0 {
		return nil
	}
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

func (m *Model) handlePumpTick(tea.Msg) tea.Cmd {
	m.pump.Drain()
	if m.manual {
		return nil
	}
	return pump.Tick(m.tick)
}

func (m *Model) handleWatchTick(tea.Msg) tea.Cmd {
	m.updateWatch()
	if m.manual {
		return nil
	}
	return watchTick()
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size := msg.(tea.WindowSizeMsg)
	m.width = size.Width
	m.height = size.Height
	return nil
}

func (m *Model) handleSpinnerTick(msg tea.Msg) tea.Cmd {
	if !m.measuring {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	if m.manual {
		return nil
	}
	return cmd
}

func watchTick() tea.Cmd {
	return tea.Tick(watchTickInterval, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

// Registry exposes the widget registry the model populated.
func (m *Model) Registry() *registry.Registry {
	return m.registry
}
