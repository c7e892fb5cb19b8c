// Package common defines sentinel errors shared by the storage, service and
// transport layers of flatcms. Callers should use errors.Is to match these
// values; lower layers wrap them with operation and path context.
package common

import "errors"

var (
	// Storage-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
	ErrorCorrupt  = errors.New("corrupt record")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
