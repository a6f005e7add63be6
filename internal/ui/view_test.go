package ui

import (
	"testing"

	"github.com/atomicstack/watch-remote/internal/command"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewMainScreen(t *testing.T) {
	f := newFixture(t)
	view := f.h.View()
	for _, want := range []string{"10:30", "STEPS: 1254", "HEART 72 BPM", "[ ", "remote offline", "0 cmds", "queue 0/32"} {
		assert.Contains(t, view, want)
	}
	assert.NotContains(t, view, "HEART RATE", "hidden screen leaked into view")
}

func TestFooterReportsQueueDepth(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"lbl_time", "lbl_battery"} {
		_, err := f.q.Push(command.Command{Kind: command.GetText, WidgetID: id})
		require.NoError(t, err)
	}
	assert.Contains(t, f.model().footer(), "queue 2/32")

	f.mustOK(t, command.Command{Kind: command.Wait, Duration: 1})
	assert.Contains(t, f.model().footer(), "queue 0/32")
	assert.Contains(t, f.model().footer(), "3 cmds")
}

func TestViewActivityShowsProgress(t *testing.T) {
	f := newFixture(t)
	f.mustOK(t, command.Command{Kind: command.Click, WidgetID: "btn_activity"})
	view := f.h.View()
	assert.Contains(t, view, "█")
	assert.Contains(t, view, "░")
	assert.Contains(t, view, "last click")
	assert.Contains(t, view, "1 cmds")
}

func TestViewShowsErrorAndRegistry(t *testing.T) {
	f := newFixture(t)
	f.exec(t, command.Command{Kind: command.Click, WidgetID: "missing"})
	f.h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	view := f.h.View()
	assert.Contains(t, view, "widget not found: missing")
	assert.Contains(t, view, "registry (18)")
	assert.Contains(t, view, "hr_measure_area")
}

func TestViewTruncatesToWidth(t *testing.T) {
	f := newFixture(t)
	f.model().addr = "127.0.0.1:12345"
	f.h.Send(tea.WindowSizeMsg{Width: minColumns, Height: 10})
	assert.NotContains(t, f.model().fit(f.model().footer()), "cmds", "footer should be truncated")
}
