package ui

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/atomicstack/watch-remote/internal/widget"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	faceColumns = 36
	barColumns  = 24
	minColumns  = 20
)

type viewLine struct {
	y    int
	x    int
	text string
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	lines := m.faceLines()
	if m.measuring {
		lines = append(lines, m.spinner.View()+" "+styles.Heart.Render("measuring"))
	}
	body := strings.Join(lines, "\n")
	sections := []string{m.frameStyle().Render(body)}
	if m.showRegistry {
		sections = append(sections, m.registryView())
	}
	if m.errMsg != "" {
		sections = append(sections, styles.Error.Render(m.fit(m.errMsg)))
	}
	sections = append(sections, styles.Footer.Render(m.fit(m.footer())))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) frameStyle() lipgloss.Style {
	switch m.active {
	case screenHeartRate:
		return *styles.HeartFrame
	case screenActivity:
		return *styles.ActivityFrame
	}
	return *styles.MainFrame
}

// faceLines lays the visible widgets of the active screen out top to bottom.
func (m *Model) faceLines() []string {
	screen := m.activeScreen()
	if screen == nil {
		return nil
	}
	var items []viewLine
	screen.Walk(func(w *widget.Widget) {
		if !w.Visible() {
			return
		}
		switch w.Kind {
		case widget.Label:
			text := foreground(w.Fg).Render(w.Text)
			if w.Parent != nil && w.Parent.Kind == widget.Button {
				text = "[ " + text + " ]"
			}
			items = append(items, viewLine{y: w.Bounds.Y, x: w.Bounds.X, text: text})
		case widget.Bar:
			items = append(items, viewLine{y: w.Bounds.Y, x: w.Bounds.X, text: progressBar(w.Value)})
		}
	})
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].y != items[j].y {
			return items[i].y < items[j].y
		}
		return items[i].x < items[j].x
	})
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, lipgloss.PlaceHorizontal(faceColumns, lipgloss.Center, item.text))
	}
	return lines
}

func progressBar(percent int) string {
	filled := barColumns * clampPercent(percent) / 100
	return styles.BarFilled.Render(strings.Repeat("█", filled)) +
		styles.BarEmpty.Render(strings.Repeat("░", barColumns-filled)) +
		fmt.Sprintf(" %3d%%", clampPercent(percent))
}

func foreground(c color.RGBA) lipgloss.Style {
	if c.A == 0 {
		return *styles.Label
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)))
}

func (m *Model) registryView() string {
	lines := m.registry.Dump()
	for i, line := range lines {
		lines[i] = m.fit(line)
	}
	title := styles.Title.Render(fmt.Sprintf("registry (%d)", m.registry.Len()))
	return title + "\n" + styles.Info.Render(strings.Join(lines, "\n"))
}

func (m *Model) footer() string {
	addr := m.addr
	if addr == "" {
		addr = "offline"
	}
	parts := []string{"remote " + addr, fmt.Sprintf("%d cmds", m.executed)}
	if m.queue != nil {
		parts = append(parts, fmt.Sprintf("queue %d/%d", m.queue.Len(), m.queue.Cap()))
	}
	if m.lastCmd != "" {
		parts = append(parts, "last "+m.lastCmd)
	}
	if m.verbose {
		parts = append(parts, fmt.Sprintf("screen %s", m.active))
	}
	return strings.Join(parts, " · ")
}

// fit truncates s to the terminal width when it is known.
func (m *Model) fit(s string) string {
	if m.width < minColumns {
		return s
	}
	return truncate.StringWithTail(s, uint(m.width), "…")
}
