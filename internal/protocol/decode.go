// Package protocol implements the newline-delimited JSON wire format spoken
// between automation clients and the server.
package protocol

import (
	"fmt"

	"github.com/atomicstack/watch-remote/internal/command"
)

const (
	// UnknownCmd is reported when the request's cmd could not be read.
	UnknownCmd = "unknown"

	defaultLongPressMs = 1000
	defaultWaitMs      = 100
	maxCmdLen          = 31
)

// DecodeError is a request that could not be turned into a Command. Cmd is
// the requested command name, or UnknownCmd.
type DecodeError struct {
	Cmd    string
	Reason command.Reason
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %s", e.Cmd, e.Reason)
}

// Decode parses a single request line.
func Decode(line []byte) (command.Command, error) {
	s := newScanner(line)
	name, ok := s.stringField("cmd")
	if !ok {
		return command.Command{}, &DecodeError{Cmd: UnknownCmd, Reason: command.ReasonInvalidJSON}
	}
	if len(name) > maxCmdLen {
		name = name[:maxCmdLen]
	}
	kind, ok := command.ParseKind(name)
	if !ok {
		return command.Command{}, &DecodeError{Cmd: name, Reason: command.ReasonUnknownCommand}
	}
	cmd := command.Command{Kind: kind}
	fail := func(reason command.Reason) (command.Command, error) {
		return command.Command{}, &DecodeError{Cmd: name, Reason: reason}
	}

	switch kind {
	case command.Click, command.GetText:
		id, ok := s.stringField("id")
		if !ok {
			return fail(command.ReasonMissingID)
		}
		cmd.WidgetID = id
	case command.LongPress:
		id, ok := s.stringField("id")
		if !ok {
			return fail(command.ReasonMissingID)
		}
		cmd.WidgetID = id
		cmd.Duration = durationOrDefault(s, defaultLongPressMs)
	case command.Swipe, command.Drag:
		from, to, ok := twoPoints(s)
		if !ok {
			return fail(command.ReasonInvalidCoordinates)
		}
		cmd.From, cmd.To = from, to
	case command.ClickAt, command.MouseMove:
		x, okX := s.intField("x")
		y, okY := s.intField("y")
		if !okX || !okY {
			return fail(command.ReasonInvalidCoordinates)
		}
		cmd.From = command.Point{X: x, Y: y}
	case command.Key:
		code, ok := s.intField("code")
		if !ok {
			return fail(command.ReasonInvalidKeyCode)
		}
		cmd.KeyCode = uint32(code)
	case command.SetText:
		id, okID := s.stringField("id")
		text, okText := s.stringField("text")
		if !okID || !okText {
			return fail(command.ReasonMissingParameters)
		}
		cmd.WidgetID = id
		cmd.Text = command.TruncateText(text)
	case command.Wait:
		cmd.Duration = durationOrDefault(s, defaultWaitMs)
	case command.Screenshot:
	}
	return cmd, nil
}

func durationOrDefault(s *scanner, fallback int) int {
	ms, ok := s.intField("ms")
	if !ok || ms <= 0 {
		return fallback
	}
	return ms
}

func twoPoints(s *scanner) (command.Point, command.Point, bool) {
	var vals [4]int
	for i, key := range [...]string{"x1", "y1", "x2", "y2"} {
		v, ok := s.intField(key)
		if !ok {
			return command.Point{}, command.Point{}, false
		}
		vals[i] = v
	}
	return command.Point{X: vals[0], Y: vals[1]}, command.Point{X: vals[2], Y: vals[3]}, true
}
