package messenger

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shieldgate/widgethost/internal/logging"
	"github.com/shieldgate/widgethost/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoServer upgrades the connection and echoes every message back with the
// event renamed, standing in for the remote message endpoint.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var msg types.Message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			msg.Event = "echo:" + msg.Event
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSocketRoundTripPreservesOrder(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	sock, err := DialSocket(wsURL(srv), logging.NewNop())
	require.NoError(t, err)
	defer sock.Close()

	events := []string{"execute", "reset", "execute"}
	for _, ev := range events {
		require.NoError(t, sock.Send(types.Message{Event: ev, WidgetID: "wgt_x"}))
	}

	for _, ev := range events {
		select {
		case got := <-sock.Events():
			assert.Equal(t, "echo:"+ev, got.Event)
			assert.Equal(t, "wgt_x", got.WidgetID)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for echo of %q", ev)
		}
	}
}

func TestSocketSendAfterClose(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	sock, err := DialSocket(wsURL(srv), logging.NewNop())
	require.NoError(t, err)

	require.NoError(t, sock.Close())
	assert.Equal(t, ErrChannelClosed, sock.Send(types.Message{Event: "execute"}))

	// Close is idempotent.
	require.NoError(t, sock.Close())
}

func TestSocketEventsCloseOnPeerDisconnect(t *testing.T) {
	srv := echoServer(t)

	sock, err := DialSocket(wsURL(srv), logging.NewNop())
	require.NoError(t, err)
	defer sock.Close()

	srv.Close()

	select {
	case _, open := <-sock.Events():
		assert.False(t, open, "event stream should close when the peer goes away")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event stream to close")
	}
}

func TestDialSocketBadEndpoint(t *testing.T) {
	_, err := DialSocket("ws://127.0.0.1:1/events", logging.NewNop())
	assert.Error(t, err)
}
