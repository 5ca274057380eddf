package messenger

import (
	"context"

	"github.com/shieldgate/widgethost/internal/diag"
	"github.com/shieldgate/widgethost/internal/logging"
	"github.com/shieldgate/widgethost/internal/registry"
	"github.com/shieldgate/widgethost/internal/shared/id"
	"github.com/shieldgate/widgethost/internal/shared/types"
	"go.uber.org/zap"
)

// Dispatcher applies inbound events from embedded content to the registry.
// Correlation is by widget id only; events for unknown widgets are reported
// and dropped. Detaching a boundary and closing its channel is all the
// cancellation there is: after that, the widget's events simply stop being
// consumed.
type Dispatcher struct {
	reg      *registry.Registry
	reporter *diag.Reporter
	logger   *logging.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(reg *registry.Registry, reporter *diag.Reporter, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	if reporter == nil {
		reporter = diag.NewReporter(logger.Logger)
	}
	return &Dispatcher{reg: reg, reporter: reporter, logger: logger}
}

// Apply correlates one inbound event and applies it atomically. Returns
// false when no widget matches the correlation token.
func (d *Dispatcher) Apply(msg types.Message) bool {
	widgetID := id.WidgetID(msg.WidgetID)

	applied := d.reg.Update(widgetID, func(rec *registry.Record) {
		switch msg.Event {
		case types.EventVerified:
			if token, ok := msg.Payload["token"].(string); ok {
				rec.Config.Response = &token
			}
			rec.State = types.StateMounted
		case types.EventError:
			rec.Config.Response = nil
			rec.State = types.StateMounted
		case types.EventExpired:
			// The token aged out; the widget stays mounted and may be
			// executed again.
			rec.Config.Response = nil
		default:
			d.logger.Debug("ignoring unknown inbound event",
				zap.String("event", msg.Event),
				zap.String("widget_id", msg.WidgetID),
			)
		}
	})

	if !applied {
		d.reporter.Reportf(diag.CodeWidgetNotFound,
			"inbound %q event for unknown widget %s", msg.Event, msg.WidgetID)
	}
	return applied
}

// Run consumes a channel's event stream until the stream closes or ctx ends.
func (d *Dispatcher) Run(ctx context.Context, events <-chan types.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			d.Apply(msg)
		}
	}
}
