package ui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/atomicstack/watch-remote/internal/logging"
	"github.com/atomicstack/watch-remote/internal/logging/events"
	"github.com/atomicstack/watch-remote/internal/registry"
	"github.com/atomicstack/watch-remote/internal/widget"
)

// Display geometry in pixels.
const (
	DisplayWidth  = 480
	DisplayHeight = 480

	faceSize   = 400
	faceOrigin = (DisplayWidth - faceSize) / 2
)

const (
	measureDuration = 3 * time.Second
	stepGoal        = 10000
	stepInterval    = 10
	stepIncrement   = 5

	swipeThreshold  = 50
	dragThreshold   = 80
	tapThreshold    = 10
	clickPressDelay = 50 * time.Millisecond
	swipeSettle     = 200 * time.Millisecond
	keySettle       = 50 * time.Millisecond
	longPressExtra  = 50 * time.Millisecond
)

type screenID int

const (
	screenMain screenID = iota
	screenHeartRate
	screenActivity
)

func (s screenID) String() string {
	switch s {
	case screenMain:
		return "main"
	case screenHeartRate:
		return "heart_rate"
	case screenActivity:
		return "activity"
	}
	return "unknown"
}

// watchFace holds the widgets the watch logic updates directly.
type watchFace struct {
	display *widget.Widget
	screens map[screenID]*widget.Widget

	time      *widget.Widget
	date      *widget.Widget
	battery   *widget.Widget
	stepsMain *widget.Widget
	heartBtn  *widget.Widget
	heartBPM  *widget.Widget
	actBtn    *widget.Widget

	hrTitle       *widget.Widget
	hrValue       *widget.Widget
	hrInstruction *widget.Widget
	hrMeasure     *widget.Widget

	actTitle  *widget.Widget
	stepCount *widget.Widget
	progress  *widget.Widget
	calories  *widget.Widget
}

func face(name string, bg, border uint32) *widget.Widget {
	w := widget.New(name, widget.Panel, widget.Rect{X: faceOrigin, Y: faceOrigin, W: faceSize, H: faceSize})
	w.Bg = widget.Hex(bg)
	w.Border = widget.Hex(border)
	return w
}

func label(parent *widget.Widget, name, text string, cx, cy int, fg uint32) *widget.Widget {
	l := widget.NewLabel(name, text, cx, cy)
	l.Fg = widget.Hex(fg)
	return parent.Add(l)
}

// buildWatch creates the three watch screens and wires their callbacks to m.
func (m *Model) buildWatch() {
	display := widget.New("display", widget.Screen, widget.Rect{W: DisplayWidth, H: DisplayHeight})
	f := &watchFace{display: display, screens: map[screenID]*widget.Widget{}}
	center := DisplayWidth / 2

	main := display.Add(face("main_screen", 0x001122, 0x333333))
	f.date = label(main, "lbl_date", "MON, SEP 8", center, center-80, 0xAAAAAA)
	f.time = label(main, "lbl_time", "", center, center-30, 0xFFFFFF)
	f.battery = label(main, "lbl_battery", "85%", faceOrigin+faceSize-50, faceOrigin+46, 0x00FF00)
	f.stepsMain = label(main, "lbl_steps_main", "STEPS: 1254", center, center+10, 0x44FF44)
	f.heartBtn = main.Add(widget.New("heart_area", widget.Button, widget.Rect{X: center - 70, Y: faceOrigin + faceSize - 40 - 50, W: 140, H: 50}))
	f.heartBtn.Bg = widget.Hex(0x330000)
	f.heartBtn.Border = widget.Hex(0xFF4444)
	hx, hy := f.heartBtn.Bounds.Center()
	f.heartBPM = label(f.heartBtn, "lbl_heart_bpm", "HEART 72 BPM", hx, hy, 0xFFFFFF)
	f.heartBtn.OnClick = m.openHeartRate
	f.heartBtn.OnLongPress = m.quickMeasure
	f.actBtn = main.Add(widget.New("btn_activity", widget.Button, widget.Rect{X: faceOrigin + 20, Y: faceOrigin + 40, W: 80, H: 30}))
	f.actBtn.Bg = widget.Hex(0x003300)
	f.actBtn.Border = widget.Hex(0x44FF44)
	ax, ay := f.actBtn.Bounds.Center()
	label(f.actBtn, "lbl_activity", "STEPS", ax, ay, 0x44FF44)
	f.actBtn.OnClick = m.openActivity
	f.screens[screenMain] = main

	hr := display.Add(face("hr_screen", 0x220000, 0xFF4444))
	hr.OnClick = func() { m.showScreen(screenMain) }
	f.hrTitle = label(hr, "lbl_hr_title", "HEART RATE", center, center-40, 0xFF4444)
	f.hrValue = label(hr, "lbl_hr_value", "72 BPM", center, center+20, 0xFFFFFF)
	f.hrInstruction = label(hr, "lbl_hr_instruction", "Hold to measure", center, faceOrigin+faceSize-36, 0xAAAAAA)
	f.hrMeasure = hr.Add(widget.New("hr_measure_area", widget.Area, widget.Rect{X: center - 60, Y: center - 60, W: 120, H: 120}))
	f.hrMeasure.OnClick = func() { m.showScreen(screenMain) }
	f.hrMeasure.OnLongPress = m.startMeasurement
	f.screens[screenHeartRate] = hr

	act := display.Add(face("activity_screen", 0x002200, 0x44FF44))
	act.OnClick = func() { m.showScreen(screenMain) }
	f.actTitle = label(act, "lbl_act_title", "STEPS", center, center-60, 0x44FF44)
	f.stepCount = label(act, "lbl_steps_count", "1,234", center, center-20, 0xFFFFFF)
	f.progress = act.Add(widget.New("activity_progress", widget.Bar, widget.Rect{X: center - 100, Y: center + 15, W: 200, H: 10}))
	f.progress.Value = 62
	f.progress.Bg = widget.Hex(0x333333)
	f.progress.Fg = widget.Hex(0x44FF44)
	f.calories = label(act, "lbl_calories", "245 cal", center, faceOrigin+faceSize-36, 0xAAAAAA)
	f.screens[screenActivity] = act

	m.face = f
	m.active = screenMain
	for id, s := range f.screens {
		s.Hidden = id != screenMain
	}
	m.refreshClock()
}

// registerWidgets publishes the automation ids, including the aliases older
// clients use.
func (m *Model) registerWidgets(reg *registry.Registry) {
	f := m.face
	ids := []struct {
		id string
		w  *widget.Widget
	}{
		{"btn_activity", f.actBtn},
		{"main_screen", f.screens[screenMain]},
		{"lbl_time", f.time},
		{"lbl_date", f.date},
		{"lbl_battery", f.battery},
		{"lbl_steps_main", f.stepsMain},
		{"heart_area", f.heartBtn},
		{"lbl_heart_bpm", f.heartBPM},
		{"btn_heart", f.heartBtn},
		{"lbl_bpm", f.heartBPM},
		{"hr_screen", f.screens[screenHeartRate]},
		{"lbl_hr_value", f.hrValue},
		{"lbl_hr_instruction", f.hrInstruction},
		{"hr_measure_area", f.hrMeasure},
		{"activity_screen", f.screens[screenActivity]},
		{"lbl_steps_count", f.stepCount},
		{"lbl_calories", f.calories},
		{"lbl_steps", f.stepCount},
	}
	for _, entry := range ids {
		if err := reg.Register(entry.id, entry.w); err != nil {
			logging.Error(fmt.Errorf("register %s: %w", entry.id, err))
		}
	}
}

func (m *Model) showScreen(id screenID) {
	if m.face == nil {
		return
	}
	if _, ok := m.face.screens[id]; !ok {
		return
	}
	events.UI.Screen(m.active.String(), id.String())
	for sid, s := range m.face.screens {
		s.Hidden = sid != id
	}
	m.active = id
}

func (m *Model) activeScreen() *widget.Widget {
	return m.face.screens[m.active]
}

func (m *Model) openHeartRate() {
	if m.active != screenMain {
		return
	}
	m.face.heartBPM.SetText("OPENING...")
	m.showScreen(screenHeartRate)
	m.face.hrInstruction.SetText("Long press to measure")
}

func (m *Model) openActivity() {
	m.showScreen(screenActivity)
	m.face.stepCount.SetText("2847")
}

// quickMeasure is the long-press shortcut on the main heart button.
func (m *Model) quickMeasure() {
	m.face.heartBPM.SetText("MEASURING...")
	m.face.stepsMain.SetText("STEPS: 2500 (UPDATED!)")
	m.face.hrValue.SetText("95 BPM")
}

func (m *Model) startMeasurement() {
	if m.active != screenHeartRate {
		return
	}
	m.measuring = true
	m.measureStart = m.clock.Now()
	m.face.hrValue.SetText("Measuring...")
	m.face.hrInstruction.SetText("Hold still... measuring")
	events.UI.Measurement(true, 0)
	m.queueCmd(m.spinner.Tick)
}

func (m *Model) refreshClock() {
	now := m.clock.Now()
	m.face.time.SetText(now.Format("15:04"))
	m.face.date.SetText(now.Format("Mon, Jan 02"))
}

// updateWatch advances the once-per-second watch state.
func (m *Model) updateWatch() {
	m.ticks++
	m.refreshClock()
	m.face.battery.SetText(fmt.Sprintf("Battery %d%%", m.battery))

	if m.measuring && m.clock.Now().Sub(m.measureStart) >= measureDuration {
		m.measuring = false
		m.heartRate = 65 + m.randn(30)
		m.face.hrValue.SetText(fmt.Sprintf("%d BPM", m.heartRate))
		m.face.hrInstruction.SetText("Tap to go back")
		m.face.heartBPM.SetText(fmt.Sprintf("HEART %d BPM", m.heartRate))
		events.UI.Measurement(false, m.heartRate)
	}

	if m.ticks%stepInterval == 0 {
		m.steps += stepIncrement
		m.calories = m.steps / 20
		progress := m.steps * 100 / stepGoal
		if progress > 100 {
			progress = 100
		}
		m.face.progress.Value = progress
		m.face.stepsMain.SetText(fmt.Sprintf("STEPS: %d", m.steps))
		m.face.stepCount.SetText(groupThousands(m.steps))
		m.face.calories.SetText(fmt.Sprintf("%d cal", m.calories))
	}
}

// swipe applies the horizontal automation swipe rule.
func (m *Model) swipe(dx, dy int) {
	if abs(dx) <= abs(dy) {
		return
	}
	switch {
	case dx < -swipeThreshold:
		m.showScreen(screenActivity)
	case dx > swipeThreshold:
		m.showScreen(screenMain)
	}
}

// gesture applies the per-screen pointer gesture rules to a completed drag.
func (m *Model) gesture(dx, dy int) {
	switch m.active {
	case screenMain:
		if abs(dx) > abs(dy) {
			if dx < -swipeThreshold {
				m.showScreen(screenActivity)
			} else if dx > swipeThreshold {
				m.showScreen(screenHeartRate)
			}
		}
	case screenHeartRate:
		if abs(dx) > abs(dy) {
			if dx < -swipeThreshold {
				m.showScreen(screenActivity)
			} else if dx > swipeThreshold {
				m.showScreen(screenMain)
			}
		} else if abs(dy) > swipeThreshold {
			m.showScreen(screenMain)
		}
	case screenActivity:
		switch {
		case dx > dragThreshold:
			m.showScreen(screenHeartRate)
		case dx < -dragThreshold:
			m.showScreen(screenMain)
		case abs(dx) < tapThreshold:
			m.showScreen(screenMain)
		}
	}
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
