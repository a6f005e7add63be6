package events

import "github.com/atomicstack/watch-remote/internal/logging"

type RegistryTracer struct{}

var Registry = RegistryTracer{}

func (RegistryTracer) Register(id string, count int) {
	logging.Trace("registry.register", map[string]interface{}{"id": id, "count": count})
}

func (RegistryTracer) Overwrite(id string) {
	logging.Trace("registry.overwrite", map[string]interface{}{"id": id})
}

func (RegistryTracer) Miss(id string, suggestions []string) {
	logging.Trace("registry.miss", map[string]interface{}{"id": id, "suggestions": suggestions})
}

func (RegistryTracer) Clear(count int) {
	logging.Trace("registry.clear", map[string]interface{}{"count": count})
}
