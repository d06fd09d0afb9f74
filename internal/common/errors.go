// Package common defines shared constants and sentinel errors used across
// opvault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Field-specification errors, raised before any store call is made.
	ErrInvalidPath          = errors.New("invalid field path")
	ErrUnsupportedFieldType = errors.New("unsupported field type")
	ErrMissingAttribute     = errors.New("missing required attribute")

	// Store-level errors.
	ErrNotFound = errors.New("not found")
	ErrStore    = errors.New("store error")

	// Auth errors (invalid or malformed token, bad service-account secret).
	ErrInvalidToken = errors.New("invalid token")
	ErrUnauthorized = errors.New("unauthorized")
)
