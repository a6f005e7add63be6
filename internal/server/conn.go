package server

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/atomicstack/watch-remote/internal/command"
	"github.com/atomicstack/watch-remote/internal/journal"
	"github.com/atomicstack/watch-remote/internal/logging"
	"github.com/atomicstack/watch-remote/internal/logging/events"
	"github.com/atomicstack/watch-remote/internal/protocol"
	"github.com/google/uuid"
)

// errConnFatal ends the current connection.
var errConnFatal = errors.New("connection no longer usable")

type session struct {
	id       string
	server   *Server
	conn     net.Conn
	out      *bufio.Writer
	commands int
}

func (s *Server) serveConn(conn net.Conn) {
	sess := &session{
		id:     uuid.NewString(),
		server: s,
		conn:   conn,
		out:    bufio.NewWriter(conn),
	}
	events.Server.Accept(sess.id, conn.RemoteAddr().String())
	logging.Infof("client %s connected from %s", sess.id, conn.RemoteAddr())
	err := sess.readLoop()
	_ = conn.Close()
	if errors.Is(err, io.EOF) {
		err = nil
	}
	events.Server.Disconnect(sess.id, sess.commands, err)
	logging.Infof("client %s disconnected after %d commands", sess.id, sess.commands)
}

// readLoop feeds complete lines to handleLine. Bytes after the last newline
// stay buffered until the next read completes the line.
func (c *session) readLoop() error {
	reader := bufio.NewReaderSize(c.conn, MaxLineLen)
	for {
		line, err := reader.ReadSlice('\n')
		switch {
		case err == nil:
		case errors.Is(err, bufio.ErrBufferFull):
			derr := discardLine(reader)
			if derr != nil && !errors.Is(derr, io.EOF) {
				return derr
			}
			if werr := c.respondDecodeError(nil); werr != nil {
				return werr
			}
			if derr != nil {
				return derr
			}
			continue
		case errors.Is(err, io.EOF):
			if len(line) > 0 {
				if herr := c.handleLine(line); herr != nil {
					return herr
				}
			}
			return io.EOF
		default:
			return err
		}
		if herr := c.handleLine(line); herr != nil {
			return herr
		}
	}
}

func discardLine(reader *bufio.Reader) error {
	for {
		_, err := reader.ReadSlice('\n')
		if err == nil {
			return nil
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}

func (c *session) handleLine(raw []byte) error {
	line := bytes.TrimLeft(raw, " \t\r\n")
	line = bytes.TrimRight(line, " \t\r\n")
	if len(line) == 0 {
		return nil
	}
	c.commands++
	start := time.Now()

	cmd, err := protocol.Decode(line)
	if err != nil {
		var de *protocol.DecodeError
		if errors.As(err, &de) {
			events.Command.Rejected(c.id, de.Cmd, string(de.Reason))
			c.record(journal.Entry{Cmd: de.Cmd, Status: "error", Reason: string(de.Reason)}, start)
		}
		return c.respondDecodeError(err)
	}

	name := cmd.Kind.String()
	ticket, err := c.server.queue.Push(cmd)
	if err != nil {
		reason := command.ReasonFor(cmd.Kind, err)
		events.Command.Rejected(c.id, name, string(reason))
		c.record(journal.Entry{Cmd: name, WidgetID: cmd.WidgetID, Status: "error", Reason: string(reason)}, start)
		return c.flush(protocol.WriteError(c.out, name, reason))
	}
	events.Command.Queue(c.id, name)

	ctx, cancel := context.WithTimeout(c.server.ctx, c.server.waitTimeout)
	done, err := ticket.Wait(ctx)
	cancel()
	if err != nil {
		events.Command.Timeout(c.id, name)
		logging.Error(fmt.Errorf("client %s: %s: %w", c.id, name, err))
		c.record(journal.Entry{Cmd: name, WidgetID: cmd.WidgetID, Status: "timeout"}, start)
		return fmt.Errorf("%w: %v", errConnFatal, err)
	}

	entry := journal.Entry{Cmd: name, WidgetID: cmd.WidgetID, Status: "ok"}
	if done.Result.Err != nil {
		entry.Status = "error"
		entry.Reason = string(command.ReasonFor(done.Kind, done.Result.Err))
	}
	werr := c.flush(protocol.WriteResult(c.out, done))
	c.record(entry, start)
	return werr
}

func (c *session) respondDecodeError(err error) error {
	if err == nil {
		err = &protocol.DecodeError{Cmd: protocol.UnknownCmd, Reason: command.ReasonInvalidJSON}
	}
	return c.flush(protocol.WriteDecodeError(c.out, err))
}

func (c *session) flush(werr error) error {
	if werr != nil {
		return fmt.Errorf("%w: %v", command.ErrNetwork, werr)
	}
	if err := c.out.Flush(); err != nil {
		return fmt.Errorf("%w: %v", command.ErrNetwork, err)
	}
	return nil
}

func (c *session) record(e journal.Entry, start time.Time) {
	rec := c.server.recorder
	if rec == nil {
		return
	}
	e.ConnID = c.id
	e.Elapsed = time.Since(start)
	e.At = start
	if err := rec.Record(c.server.ctx, e); err != nil {
		logging.Error(err)
	}
}
