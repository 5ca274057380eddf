// Package types defines shared value types for the widget host: widget
// configuration and lifecycle states, the cross-boundary message envelope,
// and per-page script configuration.
//
// Types here have no behavior beyond validation helpers so every other
// package can depend on them without cycles.
package types
