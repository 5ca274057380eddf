// Package messenger carries commands into the isolated content and applies
// inbound events from it.
//
// Outbound commands are queued per boundary and delivered in send order;
// nothing orders deliveries across different widgets' boundaries. Every
// message carries the widget id so the embedded content can demultiplex
// multi-widget pages; the receiving side performs the real origin check.
//
// Inbound events (verification results, errors, expiry) are correlated by
// widget id against the registry and applied through its atomic Update.
package messenger
