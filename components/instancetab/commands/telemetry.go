package commands

import "context"

// Telemetry receives the plugin lifecycle events emitted by the commands:
// instancetab.plugin.initialize and instancetab.plugin.destroy, each with the
// plugin code in the payload.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
