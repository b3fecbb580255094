// Package common defines shared constants, helpers and sentinel errors used
// across the snapshot store and its callers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Snapshot store errors.
	ErrCorruptPayload = errors.New("corrupt payload")
	ErrStorageIO      = errors.New("storage i/o error")
	ErrPathUnwritable = errors.New("path is not writable")
	ErrBusy           = errors.New("storage busy")

	// Lookup errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrMaintenance    = errors.New("server is in maintenance mode")

	// Account errors.
	ErrUserInactive   = errors.New("account inactive")
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already registered")

	// Balance-specific errors.
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPaymentsDisabled    = errors.New("payments are disabled")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
