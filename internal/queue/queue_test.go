package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/watch-remote/internal/command"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushCopiesAndResetsResult(t *testing.T) {
	q := New()
	cmd := command.Command{Kind: command.Click, WidgetID: "btn"}
	cmd.Result.Completed = true
	cmd.Result.Err = command.ErrNotFound
	ticket, err := q.Push(cmd)
	require.NoError(t, err)

	cmd.WidgetID = "mutated"

	var seen command.Command
	q.DrainAll(func(c *command.Command) {
		seen = *c
	})
	assert.Equal(t, "btn", seen.WidgetID)
	assert.False(t, seen.Result.Completed)
	assert.NoError(t, seen.Result.Err)

	got, err := ticket.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Result.Completed)
}

func TestPushFailsWhenFullWithoutOverwriting(t *testing.T) {
	q := New()
	for i := 0; i < Capacity; i++ {
		_, err := q.Push(command.Command{Kind: command.Wait, Duration: i})
		require.NoError(t, err)
	}
	_, err := q.Push(command.Command{Kind: command.Wait, Duration: 999})
	assert.ErrorIs(t, err, command.ErrQueueFull)
	assert.Equal(t, Capacity, q.Len())

	var durations []int
	n := q.DrainAll(func(c *command.Command) {
		durations = append(durations, c.Duration)
	})
	assert.Equal(t, Capacity, n)
	for i, d := range durations {
		assert.Equal(t, i, d)
	}

	_, err = q.Push(command.Command{Kind: command.Wait})
	assert.NoError(t, err, "queue should accept again after draining")
}

func TestDrainAllPicksUpCommandsPushedDuringDrain(t *testing.T) {
	q := New()
	_, err := q.Push(command.Command{Kind: command.Wait, Duration: 1})
	require.NoError(t, err)

	var order []int
	pushed := false
	n := q.DrainAll(func(c *command.Command) {
		order = append(order, c.Duration)
		if !pushed {
			pushed = true
			_, err := q.Push(command.Command{Kind: command.Wait, Duration: 2})
			require.NoError(t, err)
		}
	})
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 0, q.Len())
}

func TestResultIsVisibleToWaiter(t *testing.T) {
	q := New()
	ticket, err := q.Push(command.Command{Kind: command.GetText, WidgetID: "lbl_time"})
	require.NoError(t, err)

	q.DrainAll(func(c *command.Command) {
		c.SetResultText("12:34")
	})
	got, err := ticket.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "12:34", got.Result.Text)
	assert.True(t, got.Result.HasText)
}

func TestWaitTimesOutWhenNotDrained(t *testing.T) {
	q := New()
	ticket, err := q.Push(command.Command{Kind: command.Click, WidgetID: "x"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = ticket.Wait(ctx)
	assert.True(t, errors.Is(err, ErrWaitTimeout))

	// a late drain still completes the abandoned ticket
	assert.Equal(t, 1, q.DrainAll(func(*command.Command) {}))
	select {
	case <-ticket.Done():
	default:
		require.Fail(t, "expected ticket to be completed after drain")
	}
}

func TestConcurrentProducerAndDrainer(t *testing.T) {
	q := New()
	const total = 200
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			q.DrainAll(func(c *command.Command) {
				c.SetResultText(c.WidgetID)
			})
			select {
			case <-stop:
				return
			case <-time.After(time.Millisecond):
			}
		}
	}()

	for i := 0; i < total; i++ {
		id := string(rune('a' + i%26))
		ticket, err := q.Push(command.Command{Kind: command.GetText, WidgetID: id})
		require.NoError(t, err)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		got, err := ticket.Wait(ctx)
		cancel()
		require.NoError(t, err)
		require.Equal(t, id, got.Result.Text)
	}
	close(stop)
	wg.Wait()
}

func TestFIFOOrderProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("drain order equals push order", prop.ForAll(
		func(batches []int) bool {
			q := New()
			next := 0
			var got []int
			for _, size := range batches {
				for i := 0; i < size; i++ {
					if _, err := q.Push(command.Command{Kind: command.Wait, Duration: next}); err != nil {
						return false
					}
					next++
				}
				q.DrainAll(func(c *command.Command) {
					got = append(got, c.Duration)
				})
			}
			if len(got) != next {
				return false
			}
			for i, d := range got {
				if d != i {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, Capacity)),
	))

	properties.TestingRun(t)
}
