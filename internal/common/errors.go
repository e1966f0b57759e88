// Package common defines shared constants and sentinel errors used across
// the tenant gate. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Reservation lifecycle errors.
	ErrStateConflict      = errors.New("reservation state conflict")
	ErrReservationExpired = errors.New("reservation expired")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")

	// Wallet key errors.
	ErrWalletKeyMissing  = errors.New("wallet key missing")
	ErrWalletKeyMismatch = errors.New("wallet key mismatch")

	// Provisioning errors.
	ErrDuplicateName  = errors.New("wallet name already in use")
	ErrTenantDisabled = errors.New("tenant disabled")
)
