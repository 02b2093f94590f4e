package collyfetcher

import (
	"github.com/gocolly/colly/v2/debug"
	"go.uber.org/zap"
)

// ZapDebugger forwards colly request, response and error events to zap at
// debug level.
type ZapDebugger struct {
	Logger *zap.Logger
}

var _ debug.Debugger = (*ZapDebugger)(nil)

// Init implements debug.Debugger.
func (d *ZapDebugger) Init() error {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return nil
}

// Event implements debug.Debugger.
func (d *ZapDebugger) Event(e *debug.Event) {
	fields := make([]zap.Field, 0, len(e.Values)+3)
	fields = append(fields,
		zap.String("event", e.Type),
		zap.Uint32("collector_id", e.CollectorID),
		zap.Uint32("request_id", e.RequestID),
	)
	for k, v := range e.Values {
		fields = append(fields, zap.String(k, v))
	}
	d.Logger.Debug("http wire", fields...)
}
