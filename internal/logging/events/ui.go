package events

import "github.com/atomicstack/watch-remote/internal/logging"

type UITracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Command = CommandTracer{}
)

func (UITracer) Screen(from, to string) {
	logging.Trace("ui.screen", map[string]interface{}{"from": from, "to": to})
}

func (UITracer) Measurement(started bool, bpm int) {
	logging.Trace("ui.measurement", map[string]interface{}{"started": started, "bpm": bpm})
}

func (UITracer) Key(code uint32, key string) {
	logging.Trace("ui.key", map[string]interface{}{"code": code, "key": key})
}

func (CommandTracer) Queue(conn, cmd string) {
	logging.Trace("command.queue", map[string]interface{}{"conn": conn, "cmd": cmd})
}

func (CommandTracer) Rejected(conn, cmd, reason string) {
	logging.Trace("command.rejected", map[string]interface{}{"conn": conn, "cmd": cmd, "reason": reason})
}

func (CommandTracer) Execute(cmd, widget string) {
	logging.Trace("command.execute", map[string]interface{}{"cmd": cmd, "widget": widget})
}

func (CommandTracer) Result(cmd, widget string, err error) {
	payload := map[string]interface{}{"cmd": cmd, "widget": widget, "ok": err == nil}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("command.result", payload)
}

func (CommandTracer) Drain(count int) {
	logging.Trace("command.drain", map[string]interface{}{"count": count})
}

func (CommandTracer) Timeout(conn, cmd string) {
	logging.Trace("command.timeout", map[string]interface{}{"conn": conn, "cmd": cmd})
}
