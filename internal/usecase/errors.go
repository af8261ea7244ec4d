package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrGone                  = errors.New("gone")
	ErrInvariantViolation    = errors.New("invariant violation")
	ErrRateLimited           = errors.New("rate limited")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInviteExpired      = errors.New("invite expired")
	ErrInviteExhausted    = errors.New("invite exhausted")
	ErrInviteUnavailable  = errors.New("invite unavailable")
	ErrUnknownEntity      = errors.New("unknown entity")
	ErrInternal           = errors.New("internal error")
)
