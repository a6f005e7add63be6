// Package queue carries commands from the network goroutine to the UI loop.
//
// The queue is a fixed ring guarded by one mutex that covers only the ring
// bookkeeping. Commands are copied in by value and executed outside the lock,
// so a handler may take as long as it needs without blocking producers. Each
// pushed command gets a Ticket whose channel is closed once the UI loop has
// finished with it.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atomicstack/watch-remote/internal/command"
)

// Capacity is the number of commands that may be pending at once.
const Capacity = 32

// ErrWaitTimeout is returned by Ticket.Wait when the context expires before
// the UI loop completes the command.
var ErrWaitTimeout = errors.New("queue: timed out waiting for completion")

// Ticket tracks completion of one pushed command.
type Ticket struct {
	done   chan struct{}
	result command.Command
}

// Done is closed once the command has been executed.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the command completes or ctx ends. On completion it
// returns the executed command with its result populated.
func (t *Ticket) Wait(ctx context.Context) (command.Command, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		return command.Command{}, fmt.Errorf("%w: %v", ErrWaitTimeout, ctx.Err())
	}
}

type slot struct {
	cmd    command.Command
	ticket *Ticket
}

// Queue is a bounded FIFO of commands.
type Queue struct {
	mu    sync.Mutex
	slots [Capacity]slot
	head  int
	tail  int
	size  int
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Push copies cmd into the queue. It never blocks: a full queue yields
// command.ErrQueueFull.
func (q *Queue) Push(cmd command.Command) (*Ticket, error) {
	cmd.Result = command.Result{}
	ticket := &Ticket{done: make(chan struct{})}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == Capacity {
		return nil, command.ErrQueueFull
	}
	q.slots[q.tail] = slot{cmd: cmd, ticket: ticket}
	q.tail = (q.tail + 1) % Capacity
	q.size++
	return ticket, nil
}

// DrainAll executes every pending command in FIFO order, including commands
// pushed while draining, and returns how many ran. It must only be called
// from the UI loop.
func (q *Queue) DrainAll(exec func(*command.Command)) int {
	processed := 0
	for {
		q.mu.Lock()
		if q.size == 0 {
			q.mu.Unlock()
			return processed
		}
		current := q.slots[q.head]
		q.mu.Unlock()

		exec(&current.cmd)

		q.mu.Lock()
		current.cmd.Result.Completed = true
		current.ticket.result = current.cmd
		q.slots[q.head] = slot{}
		q.head = (q.head + 1) % Capacity
		q.size--
		q.mu.Unlock()

		close(current.ticket.done)
		processed++
	}
}

// Len reports the number of pending commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap reports the queue capacity.
func (q *Queue) Cap() int {
	return Capacity
}
