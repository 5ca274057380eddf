package types

// Message is the envelope exchanged across the isolation boundary. Every
// message carries the widget id so multi-widget pages can be demultiplexed on
// either side; MessageID makes individual commands traceable in logs.
type Message struct {
	Event     string                 `json:"event"`
	WidgetID  string                 `json:"widgetId"`
	MessageID string                 `json:"messageId,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// Outbound command events (host -> embedded content).
const (
	EventExecute = "execute"
	EventReset   = "reset"
)

// Inbound events (embedded content -> host).
const (
	EventVerified = "verified"
	EventError    = "error"
	EventExpired  = "expired"
)
