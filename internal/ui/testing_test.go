package ui

import (
	"testing"
	"time"

	"github.com/atomicstack/watch-remote/internal/command"
	"github.com/atomicstack/watch-remote/internal/queue"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept += d
	c.now = c.now.Add(d)
}

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	h     *Harness
	q     *queue.Queue
	clock *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	q := queue.New()
	clock := &fakeClock{now: time.Date(2025, time.September, 8, 10, 30, 0, 0, time.UTC)}
	m := NewModel(Options{
		Queue:  q,
		Manual: true,
		Clock:  clock,
		Rand:   func(int) int { return 10 },
	})
	return &fixture{h: NewHarness(m), q: q, clock: clock}
}

func (f *fixture) model() *Model { return f.h.Model() }

func (f *fixture) exec(t *testing.T, cmd command.Command) command.Command {
	t.Helper()
	done, err := f.h.Exec(f.q, cmd)
	require.NoError(t, err, "exec %s", cmd.Kind)
	require.True(t, done.Result.Completed, "exec %s: command not completed", cmd.Kind)
	return done
}

func (f *fixture) mustOK(t *testing.T, cmd command.Command) command.Command {
	t.Helper()
	done := f.exec(t, cmd)
	require.NoError(t, done.Result.Err, "exec %s", cmd.Kind)
	return done
}

func (f *fixture) text(t *testing.T, id string) string {
	t.Helper()
	return f.mustOK(t, command.Command{Kind: command.GetText, WidgetID: id}).Result.Text
}
