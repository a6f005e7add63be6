package events

import "github.com/atomicstack/watch-remote/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Stop(err error) {
	payload := map[string]interface{}{}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("app.stop", payload)
}

func (AppTracer) Journal(path string, count int, recent []string) {
	logging.Trace("app.journal", map[string]interface{}{"path": path, "count": count, "recent": recent})
}
