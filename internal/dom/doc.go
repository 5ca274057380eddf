// Package dom provides the widget host's view of a parsed host page:
// structural queries, mount-point resolution, declarative attribute reads,
// and closed shadow roots.
//
// A closed shadow root is the trust boundary primitive: its contents live
// outside the document tree, so nothing reachable through the query API can
// touch them. Only the handle returned by AttachShadow can.
package dom
