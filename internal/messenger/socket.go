package messenger

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shieldgate/widgethost/internal/logging"
	"github.com/shieldgate/widgethost/internal/shared/types"
	"go.uber.org/zap"
)

// Socket is a websocket-backed channel to the remote challenge service, used
// when the remote side exposes a live message endpoint instead of reporting
// through the host's event ingress. A single writer goroutine drains the
// outbound queue so command order is preserved on the wire.
type Socket struct {
	conn   *websocket.Conn
	out    chan types.Message
	in     chan types.Message
	logger *logging.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// DialSocket connects to the remote message endpoint and starts the reader
// and writer loops.
func DialSocket(url string, logger *logging.Logger) (*Socket, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}

	s := &Socket{
		conn:   conn,
		out:    make(chan types.Message, 32),
		in:     make(chan types.Message, 32),
		logger: logger,
		done:   make(chan struct{}),
	}
	go s.writeLoop()
	go s.readLoop()
	return s, nil
}

// Send queues one command for the wire. It never blocks.
func (s *Socket) Send(msg types.Message) error {
	select {
	case <-s.done:
		return ErrChannelClosed
	default:
	}

	select {
	case s.out <- msg:
		return nil
	default:
		return ErrChannelFull
	}
}

// Events exposes inbound events read from the socket.
func (s *Socket) Events() <-chan types.Message {
	return s.in
}

// Close tears the socket down. Queued commands are abandoned.
func (s *Socket) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
	return nil
}

func (s *Socket) writeLoop() {
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.out:
			if err := s.conn.WriteJSON(msg); err != nil {
				s.logger.Warn("socket write failed", zap.Error(err))
				s.Close()
				return
			}
		}
	}
}

func (s *Socket) readLoop() {
	defer close(s.in)
	for {
		var msg types.Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			select {
			case <-s.done:
			default:
				s.logger.Warn("socket read failed", zap.Error(err))
				s.Close()
			}
			return
		}

		select {
		case s.in <- msg:
		case <-s.done:
			return
		}
	}
}
