// Package services defines the business logic for creating and resolving
// short links. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrUnauthorized is returned when the presented bearer credential is
	// absent, empty, or does not match the configured secret. Callers must
	// not distinguish between these cases outwardly.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrURLRequired is returned when a create request omits the target URL.
	ErrURLRequired = errors.New("url is required")

	// ErrSlugTaken is returned when the store's unique constraint rejects
	// the slug. It is never pre-checked; the constraint is the only arbiter.
	ErrSlugTaken = errors.New("slug already exists")
)
