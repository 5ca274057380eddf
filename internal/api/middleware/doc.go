// Package middleware provides HTTP middleware for the widget host API:
// CORS for host-page integrations and per-IP rate limiting.
package middleware
