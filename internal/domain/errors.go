package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// The auth service wraps these so handlers can map them to HTTP status codes
// without inspecting infrastructure errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)
