// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP responses
// (via the `fail()` helper in this package). These codes provide clients with a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., unauthorized, not_found) mirror common HTTP status
//     semantics to aid interoperability.
//   - The short-link creation and resolution endpoints do NOT use these codes:
//     they keep the legacy `{"error": "..."}` envelope their existing clients
//     parse (see link_handler.go).
package handlers

const (
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeNotFound     = "not_found"

	// Domain-specific:
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
