// Package pump drains the command queue from inside the Bubble Tea loop.
package pump

import (
	"time"

	"github.com/atomicstack/watch-remote/internal/command"
	"github.com/atomicstack/watch-remote/internal/logging/events"
	"github.com/atomicstack/watch-remote/internal/queue"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is the tick period of the pump, roughly 200 Hz.
const DefaultInterval = 5 * time.Millisecond

// Executor runs a single command against UI state and records its result.
type Executor interface {
	Execute(cmd *command.Command)
}

// Pump executes queued commands through an Executor.
type Pump struct {
	queue *queue.Queue
	exec  Executor
}

// New initialises a pump over q.
func New(q *queue.Queue, exec Executor) *Pump {
	return &Pump{queue: q, exec: exec}
}

// Drain executes every pending command and returns how many ran. Only call
// it from the goroutine that owns UI state.
func (p *Pump) Drain() int {
	if p == nil || p.queue == nil {
		return 0
	}
	n := p.queue.DrainAll(p.run)
	if n > 0 {
		events.Command.Drain(n)
	}
	return n
}

func (p *Pump) run(cmd *command.Command) {
	events.Command.Execute(cmd.Kind.String(), cmd.WidgetID)
	if p.exec == nil {
		cmd.Fail(command.ErrEventFailed)
	} else {
		p.exec.Execute(cmd)
	}
	events.Command.Result(cmd.Kind.String(), cmd.WidgetID, cmd.Result.Err)
}

// TickMsg asks the model to drain the queue.
type TickMsg time.Time

// Tick schedules the next TickMsg after interval.
func Tick(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
