package events

import "github.com/atomicstack/watch-remote/internal/logging"

type ServerTracer struct{}

var Server = ServerTracer{}

func (ServerTracer) Listen(addr string) {
	logging.Trace("server.listen", map[string]interface{}{"addr": addr})
}

func (ServerTracer) Accept(conn, remote string) {
	logging.Trace("server.accept", map[string]interface{}{"conn": conn, "remote": remote})
}

func (ServerTracer) AcceptError(err error) {
	if err == nil {
		return
	}
	logging.Trace("server.accept-error", map[string]interface{}{"error": err.Error()})
}

func (ServerTracer) Disconnect(conn string, commands int, err error) {
	payload := map[string]interface{}{"conn": conn, "commands": commands}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("server.disconnect", payload)
}

func (ServerTracer) Stop(addr string) {
	logging.Trace("server.stop", map[string]interface{}{"addr": addr})
}
