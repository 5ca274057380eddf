// Package http exposes the widget host's REST surface: page loading and the
// imperative render/execute/reset API, addressed by page id and container
// reference.
//
// Lifecycle failures are already recovered and logged with their stable
// diagnostic codes by the time they reach a handler; responses carry the
// code only as a convenience for interactive callers.
package http
