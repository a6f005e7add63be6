// Package registry maps client-facing string ids to opaque widget handles.
//
// The registry has a fixed capacity and is owned by the UI loop: it is read
// and written only from inside Bubble Tea's Update, so it carries no lock.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/atomicstack/watch-remote/internal/format/table"
	"github.com/atomicstack/watch-remote/internal/logging"
	"github.com/atomicstack/watch-remote/internal/logging/events"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	// Capacity is the maximum number of active entries.
	Capacity = 64
	// MaxIDLen is the longest accepted id in bytes.
	MaxIDLen = 31
)

var (
	ErrInvalidParam = errors.New("registry: invalid parameter")
	ErrFull         = errors.New("registry: full")
	ErrNotFound     = errors.New("registry: id not found")
	ErrDuplicate    = errors.New("registry: duplicate id")
)

// Handle is an opaque reference to a UI element.
type Handle any

// DuplicatePolicy selects what Register does with an id that is already active.
type DuplicatePolicy int

const (
	DuplicateOverwrite DuplicatePolicy = iota
	DuplicateReject
)

type entry struct {
	id     string
	handle Handle
	active bool
}

// Registry is a fixed-capacity id to handle table.
type Registry struct {
	entries [Capacity]entry
	count   int
	policy  DuplicatePolicy
}

// Option customises a Registry.
type Option func(*Registry)

// WithDuplicatePolicy sets how duplicate registrations are handled.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(r *Registry) {
		r.policy = p
	}
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register binds id to handle. An existing id is overwritten in place unless
// the registry rejects duplicates; overwriting never needs a free slot.
func (r *Registry) Register(id string, handle Handle) error {
	if id == "" || len(id) > MaxIDLen {
		return fmt.Errorf("register %q: %w", id, ErrInvalidParam)
	}
	if handle == nil {
		return fmt.Errorf("register %q: nil handle: %w", id, ErrInvalidParam)
	}
	if idx := r.index(id); idx >= 0 {
		if r.policy == DuplicateReject {
			return fmt.Errorf("register %q: %w", id, ErrDuplicate)
		}
		logging.Warnf("widget id %q already registered, overwriting", id)
		events.Registry.Overwrite(id)
		r.entries[idx].handle = handle
		return nil
	}
	if r.count >= Capacity {
		return fmt.Errorf("register %q: %w", id, ErrFull)
	}
	for i := range r.entries {
		if r.entries[i].active {
			continue
		}
		r.entries[i] = entry{id: id, handle: handle, active: true}
		r.count++
		events.Registry.Register(id, r.count)
		return nil
	}
	return fmt.Errorf("register %q: %w", id, ErrFull)
}

// Resolve returns the handle bound to id.
func (r *Registry) Resolve(id string) (Handle, error) {
	if idx := r.index(id); idx >= 0 {
		return r.entries[idx].handle, nil
	}
	if id != "" {
		events.Registry.Miss(id, r.Suggest(id, 3))
	}
	return nil, fmt.Errorf("resolve %q: %w", id, ErrNotFound)
}

// Clear removes every entry.
func (r *Registry) Clear() {
	events.Registry.Clear(r.count)
	for i := range r.entries {
		r.entries[i] = entry{}
	}
	r.count = 0
}

// Len returns the number of active entries.
func (r *Registry) Len() int {
	return r.count
}

// IDs lists active ids in slot order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, r.count)
	for _, e := range r.entries {
		if e.active {
			ids = append(ids, e.id)
		}
	}
	return ids
}

// Suggest returns up to max registered ids that fuzzily resemble id, best
// match first.
func (r *Registry) Suggest(id string, max int) []string {
	if id == "" || max <= 0 {
		return nil
	}
	ranks := fuzzy.RankFindFold(id, r.IDs())
	if len(ranks) == 0 {
		ranks = fuzzy.RankFindFold(id[:1], r.IDs())
	}
	sort.Sort(ranks)
	out := make([]string, 0, max)
	for _, rank := range ranks {
		if len(out) == max {
			break
		}
		out = append(out, rank.Target)
	}
	return out
}

// Dump renders the active entries as an aligned table, one line per entry.
func (r *Registry) Dump() []string {
	rows := make([][]string, 0, r.count)
	for i, e := range r.entries {
		if !e.active {
			continue
		}
		rows = append(rows, []string{strconv.Itoa(i), e.id, fmt.Sprintf("%T", e.handle)})
	}
	header := []string{"SLOT", "ID", "HANDLE"}
	return table.WithHeader(header, rows, []table.Alignment{table.AlignRight})
}

func (r *Registry) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range r.entries {
		if r.entries[i].active && r.entries[i].id == id {
			return i
		}
	}
	return -1
}
