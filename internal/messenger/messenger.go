package messenger

import (
	"github.com/google/uuid"
	"github.com/shieldgate/widgethost/internal/logging"
	"github.com/shieldgate/widgethost/internal/shared/id"
	"github.com/shieldgate/widgethost/internal/shared/types"
	"go.uber.org/zap"
)

// Messenger sends commands into isolated content. Addressing is effectively
// a wildcard target: the receiving side is trusted to validate the sender's
// origin on receipt, so the correlation token on every message is the only
// routing the host performs.
type Messenger struct {
	logger *logging.Logger
}

// New creates a messenger.
func New(logger *logging.Logger) *Messenger {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Messenger{logger: logger}
}

// Send stamps the command with the widget's correlation token and a unique
// message id, then queues it on the boundary's channel.
func (m *Messenger) Send(ch types.Channel, widgetID id.WidgetID, event string, payload map[string]interface{}) error {
	msg := types.Message{
		Event:     event,
		WidgetID:  widgetID.String(),
		MessageID: uuid.New().String(),
		Payload:   payload,
	}

	if err := ch.Send(msg); err != nil {
		m.logger.Warn("cross-boundary send failed",
			zap.String("widget_id", widgetID.String()),
			zap.String("event", event),
			zap.Error(err),
		)
		return err
	}

	m.logger.Debug("cross-boundary command sent",
		zap.String("widget_id", widgetID.String()),
		zap.String("event", event),
		zap.String("message_id", msg.MessageID),
	)
	return nil
}
