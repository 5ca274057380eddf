// Package ws is the event ingress: the websocket endpoint where embedded
// challenge content reports back to the host.
//
// Inbound events carry the page id and the widget correlation token; each is
// applied to the owning page's registry through its dispatcher. Outbound
// traffic on the connection is limited to acks and keep-alives. Commands to
// the content travel over the per-boundary channels, not this socket.
package ws
