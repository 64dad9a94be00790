// Package common defines shared constants and sentinel errors used across
// client and server layers of Courier. Callers should use errors.Is to
// match these values; contextual detail (a username, a message id) is added
// by wrapping, e.g. fmt.Errorf("%w: %s", common.ErrNotFound, username).
package common

import "errors"

var (
	// Validation errors (malformed input: empty body, non-numeric id).
	ErrValidation = errors.New("validation error")

	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username taken")

	// Authentication errors (who you are).
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("missing token")
	ErrMalformedToken     = errors.New("malformed token")
	ErrInvalidSignature   = errors.New("invalid signature")

	// Authorization errors (valid identity, insufficient permission).
	ErrUnauthorized = errors.New("unauthorized")

	// Hashing errors (the primitive rejected its input).
	ErrHashing = errors.New("hashing error")

	// Generic internal flow control.
	ErrInternal = errors.New("internal error")
)
