// Package boundary creates and manages the isolation boundary around the
// remote challenge content: a borderless full-size frame attached under a
// closed shadow root on the widget's container.
//
// The embedded content executes under the remote service's origin and is
// fully untrusted by the host page. The closed root structurally denies
// host-page scripts access to the frame; the only interaction path is the
// messenger's correlation-token protocol.
package boundary
