// Package page hosts parsed documents. Each loaded page owns an isolated
// widget registry, lifecycle controller, and event dispatcher, so multiple
// pages can be hosted by one process and torn down independently.
package page
