package domain

import "errors"

var (
	// ErrUnauthorized is returned when the caller lacks the permission an operation requires
	ErrUnauthorized = errors.New("caller not authorized")

	// ErrAlreadyInitialized is returned when bootstrap is attempted a second time
	ErrAlreadyInitialized = errors.New("registry already initialized")

	// ErrUnknownType is returned when an operation references an unregistered stamp type
	ErrUnknownType = errors.New("unknown stamp type")

	// ErrAlreadyOnboarded is returned when onboarding an address that already holds a passport
	ErrAlreadyOnboarded = errors.New("address already onboarded")

	// ErrHashAlreadyBound is returned when a claim hash has already been bound
	ErrHashAlreadyBound = errors.New("hash already bound")

	// ErrClaimMismatch is returned when a redemption does not match the pending
	// commitment or the hash is bound to a different address
	ErrClaimMismatch = errors.New("claim mismatch")

	// ErrNotTransferable is returned when transferring a stamp whose type forbids it
	ErrNotTransferable = errors.New("stamp not transferable")

	// ErrOperationUnavailable is returned by operations that are permanently disabled
	ErrOperationUnavailable = errors.New("operation unavailable")

	// ErrInvalidAddress is returned when an account address fails validation
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidHash is returned when a claim hash fails validation
	ErrInvalidHash = errors.New("invalid hash")
)
