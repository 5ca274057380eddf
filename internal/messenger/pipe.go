package messenger

import (
	"errors"
	"sync"

	"github.com/shieldgate/widgethost/internal/shared/types"
)

// ErrChannelClosed is returned for sends on a closed channel.
var ErrChannelClosed = errors.New("messenger: channel closed")

// ErrChannelFull is returned when a command cannot be queued without
// blocking. Sends never block the caller.
var ErrChannelFull = errors.New("messenger: command queue full")

// Pipe is an in-memory channel to a boundary: an ordered outbound command
// queue and an inbound event stream. It backs boundaries whose remote side
// is reached through the event ingress rather than a dedicated socket, and
// doubles as the test double for any Channel consumer.
type Pipe struct {
	mu     sync.Mutex
	out    chan types.Message
	in     chan types.Message
	closed bool
}

// NewPipe creates a pipe with the given queue depth per direction.
func NewPipe(depth int) *Pipe {
	if depth <= 0 {
		depth = 16
	}
	return &Pipe{
		out: make(chan types.Message, depth),
		in:  make(chan types.Message, depth),
	}
}

// Send queues one command, preserving send order. It never blocks.
func (p *Pipe) Send(msg types.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrChannelClosed
	}
	select {
	case p.out <- msg:
		return nil
	default:
		return ErrChannelFull
	}
}

// Events exposes inbound events from the far side.
func (p *Pipe) Events() <-chan types.Message {
	return p.in
}

// Commands exposes the outbound queue to the far side.
func (p *Pipe) Commands() <-chan types.Message {
	return p.out
}

// Deliver injects an inbound event, as the embedded content would.
func (p *Pipe) Deliver(msg types.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrChannelClosed
	}
	select {
	case p.in <- msg:
		return nil
	default:
		return ErrChannelFull
	}
}

// Close releases the pipe. Queued commands are abandoned.
func (p *Pipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	close(p.in)
	return nil
}
