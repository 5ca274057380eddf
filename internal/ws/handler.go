package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shieldgate/widgethost/internal/infrastructure/monitoring"
	"github.com/shieldgate/widgethost/internal/logging"
	"github.com/shieldgate/widgethost/internal/page"
	"github.com/shieldgate/widgethost/internal/shared/id"
	"github.com/shieldgate/widgethost/internal/shared/types"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Events arrive from the challenge origin; the dispatcher drops
		// anything whose correlation token matches no widget.
		return true
	},
}

// inboundEvent is one event posted by embedded content, addressed to a page.
type inboundEvent struct {
	PageID string `json:"pageId"`
	types.Message
}

// Handler manages event ingress connections.
type Handler struct {
	pages   *page.Manager
	metrics *monitoring.Metrics
	logger  *logging.Logger
}

// NewHandler creates an event ingress handler.
func NewHandler(pages *page.Manager, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{pages: pages, metrics: metrics, logger: logger}
}

// HandleConnection upgrades the request and consumes events until the peer
// disconnects.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("event ingress upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
		defer h.metrics.WSConnections.Dec()
	}

	h.send(conn, gin.H{"type": "system", "message": "connected to widget host event ingress"})

	for {
		var ev inboundEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("event ingress read ended", zap.Error(err))
			}
			return
		}

		if ev.Event == "ping" {
			h.send(conn, gin.H{"type": "pong"})
			continue
		}

		applied := h.apply(ev)
		if h.metrics != nil {
			h.metrics.EventsTotal.WithLabelValues(ev.Event, label(applied)).Inc()
		}
		h.send(conn, gin.H{"type": "ack", "messageId": ev.MessageID, "applied": applied})
	}
}

func (h *Handler) apply(ev inboundEvent) bool {
	p, ok := h.pages.Get(id.PageID(ev.PageID))
	if !ok {
		h.logger.Warn("event for unknown page",
			zap.String("page_id", ev.PageID),
			zap.String("event", ev.Event),
		)
		return false
	}
	return p.Dispatcher.Apply(ev.Message)
}

func (h *Handler) send(conn *websocket.Conn, data interface{}) {
	if err := conn.WriteJSON(data); err != nil {
		h.logger.Debug("event ingress write failed", zap.Error(err))
	}
}

func label(applied bool) string {
	if applied {
		return "true"
	}
	return "false"
}
