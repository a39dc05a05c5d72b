package instancetab

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Telemetry records tab events for observability.
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

// LogTelemetry writes telemetry events to a logger at debug level.
type LogTelemetry struct {
	Logger logrus.FieldLogger
}

func (t LogTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	if t.Logger == nil {
		return
	}
	t.Logger.WithFields(logrus.Fields(payload)).Debug(event)
}

func normalizeLogger(l logrus.FieldLogger) logrus.FieldLogger {
	if l != nil {
		return l
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return discard
}
