package types

// Channel is one widget's communication path across its isolation boundary.
// Sends are delivered in order for a given channel; there is no ordering
// guarantee across different widgets' channels and none is needed, since
// every message is addressed independently by widget id.
type Channel interface {
	// Send queues one command for the embedded content.
	Send(Message) error

	// Events exposes inbound events from the embedded content.
	Events() <-chan Message

	// Close releases the channel. Pending sends are abandoned.
	Close() error
}
