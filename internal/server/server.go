// Package server accepts automation clients over TCP and forwards their
// requests to the UI loop through the command queue.
//
// Exactly one client is served at a time: the accept loop hands each
// connection to serveConn and only accepts the next once it returns.
package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/atomicstack/watch-remote/internal/command"
	"github.com/atomicstack/watch-remote/internal/journal"
	"github.com/atomicstack/watch-remote/internal/logging"
	"github.com/atomicstack/watch-remote/internal/logging/events"
	"github.com/atomicstack/watch-remote/internal/queue"
)

const (
	// DefaultPort is the port used when none is configured.
	DefaultPort = 12345
	// DefaultWaitTimeout bounds how long a request waits for the UI loop.
	DefaultWaitTimeout = 30 * time.Second
	// MaxLineLen is the longest accepted request line, newline included.
	MaxLineLen = 4096

	acceptBackoff = 100 * time.Millisecond
)

// Pusher enqueues commands for the UI loop.
type Pusher interface {
	Push(cmd command.Command) (*queue.Ticket, error)
}

// Recorder persists answered requests.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Option customises a Server.
type Option func(*Server)

// WithWaitTimeout sets the completion wait timeout per request.
func WithWaitTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.waitTimeout = d
		}
	}
}

// WithRecorder journals every answered request.
func WithRecorder(r Recorder) Option {
	return func(s *Server) {
		s.recorder = r
	}
}

// Server is a single-client TCP front end for the command queue.
type Server struct {
	addr        string
	queue       Pusher
	recorder    Recorder
	waitTimeout time.Duration

	listener net.Listener
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	backoff  *throttle

	mu     sync.Mutex
	active net.Conn
}

// New returns a server that will listen on addr once started.
func New(addr string, q Pusher, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:        addr,
		queue:       q,
		waitTimeout: DefaultWaitTimeout,
		quit:        make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
		backoff:     newThrottle(acceptBackoff),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds the listener and begins accepting clients in the background.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.listener = l
	events.Server.Listen(l.Addr().String())
	logging.Infof("listening on %s", l.Addr())
	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
			}
			events.Server.AcceptError(err)
			logging.Error(fmt.Errorf("accept: %w", err))
			if !s.backoff.wait(s.quit) {
				return
			}
			continue
		}
		if !s.setActive(conn) {
			_ = conn.Close()
			return
		}
		s.serveConn(conn)
		s.setActive(nil)
	}
}

// setActive records the connection being served so Stop can interrupt it.
// It reports false if the server is already stopping.
func (s *Server) setActive(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.quit:
		return conn == nil
	default:
	}
	s.active = conn
	return true
}

// Stop closes the listener and any active client, then waits for the accept
// loop to finish or ctx to expire.
func (s *Server) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		close(s.quit)
		if s.active != nil {
			_ = s.active.Close()
		}
		s.mu.Unlock()
		s.cancel()
		if s.listener != nil {
			_ = s.listener.Close()
			events.Server.Stop(s.listener.Addr().String())
		}
	})
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
