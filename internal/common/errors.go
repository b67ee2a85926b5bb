// Package common defines shared constants and sentinel errors used across
// the client and server layers of linkdrop. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Upload link errors.
	ErrLinkExpired     = errors.New("link expired")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidPath     = errors.New("invalid path")
	ErrInvalidExpiry   = errors.New("invalid expiry")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
