package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/atomicstack/watch-remote/internal/journal"
	"github.com/atomicstack/watch-remote/internal/logging"
	"github.com/atomicstack/watch-remote/internal/logging/events"
	"github.com/atomicstack/watch-remote/internal/queue"
	"github.com/atomicstack/watch-remote/internal/registry"
	"github.com/atomicstack/watch-remote/internal/server"
	"github.com/atomicstack/watch-remote/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	shutdownTimeout = 2 * time.Second
	historyLimit    = 5
)

// Config describes user-provided application options.
type Config struct {
	Addr               string
	Port               int
	TickInterval       time.Duration
	WaitTimeout        time.Duration
	Headless           bool
	JournalPath        string
	RejectDuplicateIDs bool
	Verbose            bool
	Width              int
	Height             int
}

// ListenAddr joins Addr and Port into a dialable address.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Addr, strconv.Itoa(c.Port))
}

// runtime holds the wired components for one run of the program.
type runtime struct {
	registry *registry.Registry
	queue    *queue.Queue
	journal  *journal.Journal
	server   *server.Server
	model    *ui.Model
}

// newRuntime builds and starts every component except the UI program.
// manual disables the model's timers for callers that drive it directly.
func newRuntime(cfg Config, manual bool) (*runtime, error) {
	policy := registry.DuplicateOverwrite
	if cfg.RejectDuplicateIDs {
		policy = registry.DuplicateReject
	}
	rt := &runtime{
		registry: registry.New(registry.WithDuplicatePolicy(policy)),
		queue:    queue.New(),
	}

	opts := []server.Option{server.WithWaitTimeout(cfg.WaitTimeout)}
	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, err
		}
		rt.journal = j
		reportHistory(cfg.JournalPath, j)
		opts = append(opts, server.WithRecorder(j))
	}

	rt.server = server.New(cfg.ListenAddr(), rt.queue, opts...)
	if err := rt.server.Start(); err != nil {
		_ = rt.journal.Close()
		return nil, err
	}

	rt.model = ui.NewModel(ui.Options{
		Registry:     rt.registry,
		Queue:        rt.queue,
		TickInterval: cfg.TickInterval,
		Manual:       manual,
		Addr:         rt.server.Addr().String(),
		Width:        cfg.Width,
		Height:       cfg.Height,
		Verbose:      cfg.Verbose,
	})
	return rt, nil
}

// journalHistory summarises what an existing journal already holds.
func journalHistory(ctx context.Context, j *journal.Journal, limit int) (int, []string, error) {
	count, err := j.Count(ctx)
	if err != nil {
		return 0, nil, err
	}
	entries, err := j.Recent(ctx, limit)
	if err != nil {
		return count, nil, err
	}
	recent := make([]string, 0, len(entries))
	for _, e := range entries {
		line := fmt.Sprintf("%s %s %s", e.At.Format(time.RFC3339), e.Cmd, e.Status)
		if e.WidgetID != "" {
			line += " " + e.WidgetID
		}
		if e.Reason != "" {
			line += " (" + e.Reason + ")"
		}
		recent = append(recent, line)
	}
	return count, recent, nil
}

func reportHistory(path string, j *journal.Journal) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	count, recent, err := journalHistory(ctx, j, historyLimit)
	if err != nil {
		logging.Error(fmt.Errorf("read journal history: %w", err))
		return
	}
	events.App.Journal(path, count, recent)
	if count > 0 {
		logging.Infof("journal %s holds %d commands", path, count)
	}
}

// close stops the server before tearing down the registry so no request can
// resolve a widget that is going away.
func (rt *runtime) close(ctx context.Context) error {
	var errs []error
	if err := rt.server.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("stop server: %w", err))
	}
	rt.registry.Clear()
	if err := rt.journal.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close journal: %w", err))
	}
	return errors.Join(errs...)
}

func programOptions(cfg Config) []tea.ProgramOption {
	if cfg.Headless {
		return []tea.ProgramOption{tea.WithInput(nil), tea.WithoutRenderer()}
	}
	return []tea.ProgramOption{tea.WithAltScreen()}
}

// Run bootstraps the remote control server and executes the Bubble Tea
// program until it quits.
func Run(cfg Config) (err error) {
	rt, err := newRuntime(cfg, false)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := rt.close(ctx); cerr != nil {
			logging.Error(cerr)
			if err == nil {
				err = cerr
			}
		}
		events.App.Stop(err)
	}()

	program := tea.NewProgram(rt.model, programOptions(cfg)...)
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
