package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/watch-remote/internal/command"
	"github.com/atomicstack/watch-remote/internal/logging/events"
	"github.com/atomicstack/watch-remote/internal/registry"
	"github.com/atomicstack/watch-remote/internal/widget"
)

func (m *Model) registerCommands() {
	m.commands = map[command.Kind]commandHandler{
		command.Click:      m.execClick,
		command.LongPress:  m.execLongPress,
		command.Swipe:      m.execSwipe,
		command.Key:        m.execKey,
		command.GetText:    m.execGetText,
		command.SetText:    m.execSetText,
		command.Screenshot: m.execScreenshot,
		command.Wait:       m.execWait,
		command.ClickAt:    m.execClickAt,
		command.MouseMove:  m.execMouseMove,
		command.Drag:       m.execDrag,
	}
}

// Execute runs cmd against the widget tree. It is invoked by the pump from
// inside Update.
func (m *Model) Execute(cmd *command.Command) {
	m.executed++
	m.lastCmd = cmd.Kind.String()
	handler, ok := m.commands[cmd.Kind]
	if !ok {
		cmd.Fail(fmt.Errorf("%s: %w", cmd.Kind, command.ErrEventFailed))
		return
	}
	handler(cmd)
	if cmd.Result.Err != nil {
		m.errMsg = fmt.Sprintf("%s: %v", cmd.Kind, cmd.Result.Err)
	} else {
		m.errMsg = ""
	}
}

func (m *Model) resolve(id string) (*widget.Widget, error) {
	h, err := m.registry.Resolve(id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", command.ErrNotFound, id)
		}
		return nil, err
	}
	w, ok := h.(*widget.Widget)
	if !ok || w == nil {
		return nil, fmt.Errorf("%w: %s", command.ErrInvalidWidget, id)
	}
	return w, nil
}

func (m *Model) sleepMs(ms int) {
	m.clock.Sleep(time.Duration(ms) * time.Millisecond)
}

func onDisplay(p command.Point) bool {
	return p.X >= 0 && p.X < DisplayWidth && p.Y >= 0 && p.Y < DisplayHeight
}

func (m *Model) execClick(cmd *command.Command) {
	w, err := m.resolve(cmd.WidgetID)
	if err != nil {
		cmd.Fail(err)
		return
	}
	m.click(w)
}

func (m *Model) click(w *widget.Widget) {
	m.pointer.X, m.pointer.Y = w.Bounds.Center()
	if w.OnClick != nil {
		w.OnClick()
	}
}

func (m *Model) execLongPress(cmd *command.Command) {
	w, err := m.resolve(cmd.WidgetID)
	if err != nil {
		cmd.Fail(err)
		return
	}
	if w.OnLongPress == nil {
		m.clock.Sleep(time.Duration(cmd.Duration)*time.Millisecond + longPressExtra)
		return
	}
	m.sleepMs(cmd.Duration)
	w.OnLongPress()
}

func (m *Model) execSwipe(cmd *command.Command) {
	if !onDisplay(cmd.From) || !onDisplay(cmd.To) {
		cmd.Fail(fmt.Errorf("swipe outside display: %w", command.ErrEventFailed))
		return
	}
	m.swipe(cmd.To.X-cmd.From.X, cmd.To.Y-cmd.From.Y)
	m.pointer = cmd.To
	m.clock.Sleep(swipeSettle)
}

func (m *Model) execKey(cmd *command.Command) {
	msg, ok := keyMsgForCode(cmd.KeyCode)
	if !ok {
		cmd.Fail(fmt.Errorf("key code %d: %w", cmd.KeyCode, command.ErrEventFailed))
		return
	}
	events.UI.Key(cmd.KeyCode, msg.String())
	m.applyKey(msg, true)
	m.clock.Sleep(keySettle)
}

// execGetText reports label text, a button's label text, or a synthetic name
// for widgets without text.
func (m *Model) execGetText(cmd *command.Command) {
	w, err := m.resolve(cmd.WidgetID)
	if err != nil {
		cmd.Fail(err)
		return
	}
	switch w.Kind {
	case widget.Label:
		cmd.SetResultText(w.Text)
	case widget.Button:
		if l := w.Label(); l != nil {
			cmd.SetResultText(l.Text)
		} else {
			cmd.SetResultText("button_" + cmd.WidgetID)
		}
	default:
		cmd.SetResultText("widget_" + cmd.WidgetID)
	}
}

func (m *Model) execSetText(cmd *command.Command) {
	w, err := m.resolve(cmd.WidgetID)
	if err != nil {
		cmd.Fail(err)
		return
	}
	target := w
	if w.Kind == widget.Button {
		target = w.Label()
	}
	if target == nil || target.Kind != widget.Label {
		cmd.Fail(fmt.Errorf("set_text on %s %s: %w", w.Kind, cmd.WidgetID, command.ErrInvalidWidget))
		return
	}
	target.SetText(cmd.Text)
}

func (m *Model) execScreenshot(cmd *command.Command) {
	data, err := m.captureFrame()
	if err != nil {
		cmd.Fail(fmt.Errorf("%w: %v", command.ErrScreenshotFailed, err))
		return
	}
	cmd.Result.Data = data
	cmd.Result.Width = DisplayWidth
	cmd.Result.Height = DisplayHeight
}

func (m *Model) execWait(cmd *command.Command) {
	m.sleepMs(cmd.Duration)
}

// execClickAt presses whatever is under the point on the active screen,
// falling back to any visible registered widget covering it.
func (m *Model) execClickAt(cmd *command.Command) {
	if !onDisplay(cmd.From) {
		cmd.Fail(fmt.Errorf("click outside display: %w", command.ErrEventFailed))
		return
	}
	target := m.activeScreen().HitTest(cmd.From.X, cmd.From.Y)
	if target == nil {
		target = m.registeredAt(cmd.From)
	}
	if target == nil {
		cmd.Fail(fmt.Errorf("nothing at (%d,%d): %w", cmd.From.X, cmd.From.Y, command.ErrEventFailed))
		return
	}
	m.clock.Sleep(clickPressDelay)
	m.click(target)
	m.pointer = cmd.From
	m.clock.Sleep(clickPressDelay)
}

func (m *Model) registeredAt(p command.Point) *widget.Widget {
	for _, id := range m.registry.IDs() {
		w, err := m.resolve(id)
		if err != nil || !w.Visible() || w.Kind == widget.Label {
			continue
		}
		if w.Bounds.Contains(p.X, p.Y) {
			return w
		}
	}
	return nil
}

func (m *Model) execMouseMove(cmd *command.Command) {
	if !onDisplay(cmd.From) {
		cmd.Fail(fmt.Errorf("pointer outside display: %w", command.ErrEventFailed))
		return
	}
	m.pointer = cmd.From
}

// execDrag presses at From, moves to To and releases, feeding the gesture
// rules of the active screen. A press that barely moves over a clickable
// widget is a tap on that widget.
func (m *Model) execDrag(cmd *command.Command) {
	if !onDisplay(cmd.From) || !onDisplay(cmd.To) {
		cmd.Fail(fmt.Errorf("drag outside display: %w", command.ErrEventFailed))
		return
	}
	dx, dy := cmd.To.X-cmd.From.X, cmd.To.Y-cmd.From.Y
	m.pointer = cmd.To
	if abs(dx) < tapThreshold && abs(dy) < tapThreshold {
		if w := m.activeScreen().HitTest(cmd.From.X, cmd.From.Y); w != nil && w != m.activeScreen() {
			m.click(w)
			return
		}
	}
	m.gesture(dx, dy)
}
