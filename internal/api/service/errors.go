package service

import "errors"

var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("todo not found")
	// ErrValidationSkipped marks an add or edit that was ignored because the
	// task was empty. Callers treat it as a silent no-op.
	ErrValidationSkipped = errors.New("empty task ignored")
	ErrSessionInvalid    = errors.New("session invalid")
)
