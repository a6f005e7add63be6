package ui

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/atomicstack/watch-remote/internal/command"
	"github.com/atomicstack/watch-remote/internal/protocol"
	"github.com/atomicstack/watch-remote/internal/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClickHeartOpensHeartRateScreen(t *testing.T) {
	f := newFixture(t)
	f.mustOK(t, command.Command{Kind: command.Click, WidgetID: "heart_area"})

	assert.Equal(t, screenHeartRate, f.model().active)
	assert.Equal(t, "OPENING...", f.text(t, "lbl_heart_bpm"))
	assert.Equal(t, "Long press to measure", f.text(t, "lbl_hr_instruction"))
}

func TestClickAliasResolvesSameWidget(t *testing.T) {
	f := newFixture(t)
	f.mustOK(t, command.Command{Kind: command.Click, WidgetID: "btn_activity"})
	assert.Equal(t, screenActivity, f.model().active)
	assert.Equal(t, "2847", f.text(t, "lbl_steps"), "alias reads the step count")
}

func TestClickUnknownWidget(t *testing.T) {
	f := newFixture(t)
	done := f.exec(t, command.Command{Kind: command.Click, WidgetID: "nope"})
	assert.ErrorIs(t, done.Result.Err, command.ErrNotFound)
	assert.Equal(t, command.ReasonWidgetNotFound, command.ReasonFor(command.Click, done.Result.Err))
	assert.Contains(t, f.model().errMsg, "nope")
}

func TestGetTextVariants(t *testing.T) {
	f := newFixture(t)
	cases := map[string]string{
		"lbl_time":    "10:30",
		"btn_heart":   "HEART 72 BPM",
		"main_screen": "widget_main_screen",
		"hr_screen":   "widget_hr_screen",
	}
	for id, want := range cases {
		assert.Equal(t, want, f.text(t, id), "get_state %s", id)
	}
}

func TestSetTextUpdatesLabelsAndRejectsPanels(t *testing.T) {
	f := newFixture(t)
	f.mustOK(t, command.Command{Kind: command.SetText, WidgetID: "lbl_steps", Text: "9,999"})
	assert.Equal(t, "9,999", f.text(t, "lbl_steps_count"), "alias shares the label")
	f.mustOK(t, command.Command{Kind: command.SetText, WidgetID: "btn_heart", Text: "PULSE"})
	assert.Equal(t, "PULSE", f.text(t, "lbl_bpm"), "button label updated")

	done := f.exec(t, command.Command{Kind: command.SetText, WidgetID: "main_screen", Text: "x"})
	assert.ErrorIs(t, done.Result.Err, command.ErrInvalidWidget)
	assert.Equal(t, command.ReasonInvalidWidget, command.ReasonFor(command.SetText, done.Result.Err))
}

func TestLongPressHeartQuickMeasure(t *testing.T) {
	f := newFixture(t)
	f.mustOK(t, command.Command{Kind: command.LongPress, WidgetID: "heart_area", Duration: 1000})
	assert.Equal(t, time.Second, f.clock.slept)
	assert.Equal(t, "MEASURING...", f.text(t, "lbl_heart_bpm"))
	assert.Equal(t, "95 BPM", f.text(t, "lbl_hr_value"))
	assert.Equal(t, "STEPS: 2500 (UPDATED!)", f.text(t, "lbl_steps_main"))
}

func TestLongPressWithoutHandlerStillHolds(t *testing.T) {
	f := newFixture(t)
	f.mustOK(t, command.Command{Kind: command.LongPress, WidgetID: "lbl_time", Duration: 200})
	assert.Equal(t, 200*time.Millisecond+longPressExtra, f.clock.slept)
}

func TestMeasurementCompletesOnWatchTick(t *testing.T) {
	f := newFixture(t)
	f.mustOK(t, command.Command{Kind: command.Click, WidgetID: "heart_area"})
	f.mustOK(t, command.Command{Kind: command.LongPress, WidgetID: "hr_measure_area", Duration: 1000})
	require.True(t, f.model().measuring, "measurement should start")
	assert.Equal(t, "Measuring...", f.text(t, "lbl_hr_value"))

	f.h.Send(watchTickMsg(f.clock.Now()))
	require.True(t, f.model().measuring, "measurement finished early")

	f.clock.Advance(measureDuration)
	f.h.Send(watchTickMsg(f.clock.Now()))
	assert.False(t, f.model().measuring)
	assert.Equal(t, "75 BPM", f.text(t, "lbl_hr_value"))
	assert.Equal(t, "HEART 75 BPM", f.text(t, "lbl_heart_bpm"))
}

func TestSwipe(t *testing.T) {
	f := newFixture(t)
	f.mustOK(t, command.Command{Kind: command.Swipe, From: command.Point{X: 300, Y: 240}, To: command.Point{X: 100, Y: 240}})
	assert.Equal(t, screenActivity, f.model().active, "left swipe opens activity")
	f.mustOK(t, command.Command{Kind: command.Swipe, From: command.Point{X: 100, Y: 240}, To: command.Point{X: 300, Y: 240}})
	assert.Equal(t, screenMain, f.model().active, "right swipe returns home")
	f.mustOK(t, command.Command{Kind: command.Swipe, From: command.Point{X: 240, Y: 100}, To: command.Point{X: 240, Y: 400}})
	assert.Equal(t, screenMain, f.model().active, "vertical swipe does not navigate")

	done := f.exec(t, command.Command{Kind: command.Swipe, From: command.Point{X: -1, Y: 0}, To: command.Point{X: 10, Y: 0}})
	assert.Equal(t, command.ReasonSwipeFailed, command.ReasonFor(command.Swipe, done.Result.Err))
}

func TestKeyCommands(t *testing.T) {
	f := newFixture(t)
	f.mustOK(t, command.Command{Kind: command.Key, KeyCode: keyCodeNext})
	assert.Equal(t, screenHeartRate, f.model().active, "tab advances the screen")
	f.mustOK(t, command.Command{Kind: command.Key, KeyCode: keyCodeEsc})
	assert.Equal(t, screenMain, f.model().active, "esc goes home")
	f.mustOK(t, command.Command{Kind: command.Key, KeyCode: 'q'})
	assert.False(t, f.model().quitting, "remote key must not quit")
	assert.Equal(t, 3*keySettle, f.clock.slept)

	done := f.exec(t, command.Command{Kind: command.Key, KeyCode: 0})
	assert.Equal(t, command.ReasonKeyEventFailed, command.ReasonFor(command.Key, done.Result.Err))
}

func TestScreenshotRendersActiveScreen(t *testing.T) {
	f := newFixture(t)
	done := f.mustOK(t, command.Command{Kind: command.Screenshot})
	assert.Equal(t, DisplayWidth, done.Result.Width)
	assert.Equal(t, DisplayHeight, done.Result.Height)
	img, err := png.Decode(bytes.NewReader(done.Result.Data))
	require.NoError(t, err)
	assert.Equal(t, DisplayWidth, img.Bounds().Dx())
	assert.Equal(t, DisplayHeight, img.Bounds().Dy())

	btn := f.model().face.heartBtn.Bounds
	assertPixel(t, img, btn.X, btn.Y, widget.Hex(0xFF4444))
	assertPixel(t, img, btn.X+5, btn.Y+5, widget.Hex(0x330000))
	assertPixel(t, img, 5, 5, displayBackground)

	f.mustOK(t, command.Command{Kind: command.Click, WidgetID: "heart_area"})
	done = f.mustOK(t, command.Command{Kind: command.Screenshot})
	img, err = png.Decode(bytes.NewReader(done.Result.Data))
	require.NoError(t, err)
	assertPixel(t, img, btn.X+5, btn.Y+5, widget.Hex(0x220000))
}

func TestWaitSleepsOnUILoop(t *testing.T) {
	f := newFixture(t)
	f.mustOK(t, command.Command{Kind: command.Wait, Duration: 100})
	assert.Equal(t, 100*time.Millisecond, f.clock.slept)
}

type widgetState struct {
	text   string
	hidden bool
}

func snapshotState(t *testing.T, m *Model) (screenID, map[string]widgetState) {
	t.Helper()
	state := map[string]widgetState{}
	for _, id := range m.Registry().IDs() {
		w, err := m.resolve(id)
		require.NoError(t, err, "resolve %s", id)
		state[id] = widgetState{text: w.Text, hidden: w.Hidden}
	}
	return m.active, state
}

func TestRepeatedWaitLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	f.mustOK(t, command.Command{Kind: command.Click, WidgetID: "btn_activity"})
	beforeIDs := f.model().Registry().IDs()
	beforeActive, before := snapshotState(t, f.model())

	for _, line := range []string{`{"cmd":"wait"}`, `{"cmd":"wait","ms":5}`, `{"cmd":"wait","ms":250}`, `{"cmd":"wait"}`} {
		cmd, err := protocol.Decode([]byte(line))
		require.NoError(t, err, "decode %s", line)
		f.mustOK(t, cmd)
	}

	afterActive, after := snapshotState(t, f.model())
	assert.Equal(t, beforeActive, afterActive, "active screen")
	assert.Equal(t, beforeIDs, f.model().Registry().IDs(), "registry ids")
	assert.Equal(t, before, after, "widget text and visibility")
	assert.Equal(t, 455*time.Millisecond, f.clock.slept)
}

func TestClickAt(t *testing.T) {
	f := newFixture(t)
	x, y := f.model().face.heartBtn.Bounds.Center()
	f.mustOK(t, command.Command{Kind: command.ClickAt, From: command.Point{X: x, Y: y}})
	assert.Equal(t, screenHeartRate, f.model().active, "click_at hits the heart button")
	assert.Equal(t, command.Point{X: x, Y: y}, f.model().pointer)

	f.mustOK(t, command.Command{Kind: command.Key, KeyCode: keyCodeHome})
	done := f.exec(t, command.Command{Kind: command.ClickAt, From: command.Point{X: 5, Y: 5}})
	assert.Equal(t, command.ReasonClickFailed, command.ReasonFor(command.ClickAt, done.Result.Err))
}

func TestMouseMove(t *testing.T) {
	f := newFixture(t)
	f.mustOK(t, command.Command{Kind: command.MouseMove, From: command.Point{X: 12, Y: 34}})
	assert.Equal(t, command.Point{X: 12, Y: 34}, f.model().pointer)

	done := f.exec(t, command.Command{Kind: command.MouseMove, From: command.Point{X: DisplayWidth, Y: 0}})
	assert.Equal(t, command.ReasonMouseMoveFailed, command.ReasonFor(command.MouseMove, done.Result.Err))
}

func TestDragGestures(t *testing.T) {
	f := newFixture(t)
	f.mustOK(t, command.Command{Kind: command.Drag, From: command.Point{X: 300, Y: 240}, To: command.Point{X: 400, Y: 240}})
	assert.Equal(t, screenHeartRate, f.model().active, "right drag on main opens heart rate")
	f.mustOK(t, command.Command{Kind: command.Drag, From: command.Point{X: 240, Y: 100}, To: command.Point{X: 240, Y: 300}})
	assert.Equal(t, screenMain, f.model().active, "vertical drag on heart rate goes home")

	x, y := f.model().face.actBtn.Bounds.Center()
	f.mustOK(t, command.Command{Kind: command.Drag, From: command.Point{X: x, Y: y}, To: command.Point{X: x + 2, Y: y + 1}})
	assert.Equal(t, screenActivity, f.model().active, "short drag taps the activity button")
	f.mustOK(t, command.Command{Kind: command.Drag, From: command.Point{X: 100, Y: 240}, To: command.Point{X: 300, Y: 240}})
	assert.Equal(t, screenHeartRate, f.model().active, "right drag on activity opens heart rate")

	done := f.exec(t, command.Command{Kind: command.Drag, From: command.Point{X: 0, Y: 0}, To: command.Point{X: 0, Y: DisplayHeight}})
	assert.Equal(t, command.ReasonDragFailed, command.ReasonFor(command.Drag, done.Result.Err))
}

func TestCommandsRunInQueueOrder(t *testing.T) {
	f := newFixture(t)
	first, err := f.q.Push(command.Command{Kind: command.SetText, WidgetID: "lbl_time", Text: "one"})
	require.NoError(t, err)
	second, err := f.q.Push(command.Command{Kind: command.GetText, WidgetID: "lbl_time"})
	require.NoError(t, err)

	f.h.Send(watchTickMsg(f.clock.Now()))
	select {
	case <-first.Done():
		require.Fail(t, "watch tick must not drain the queue")
	default:
	}

	done, err := f.h.Exec(f.q, command.Command{Kind: command.Wait})
	require.NoError(t, err)
	assert.True(t, done.Result.Completed)
	<-first.Done()
	<-second.Done()
	assert.Equal(t, 3, f.model().executed)
}
