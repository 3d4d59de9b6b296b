package errors

import (
	"encoding/json"
	"strings"
)

// ErrorCode is a stable machine-readable error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Domain conflicts (4xx)
	ErrCodeAlreadyInitialized   ErrorCode = "ALREADY_INITIALIZED"
	ErrCodeUnknownType          ErrorCode = "UNKNOWN_TYPE"
	ErrCodeAlreadyOnboarded     ErrorCode = "ALREADY_ONBOARDED"
	ErrCodeHashAlreadyBound     ErrorCode = "HASH_ALREADY_BOUND"
	ErrCodeClaimMismatch        ErrorCode = "CLAIM_MISMATCH"
	ErrCodeNotTransferable      ErrorCode = "NOT_TRANSFERABLE"
	ErrCodeOperationUnavailable ErrorCode = "OPERATION_UNAVAILABLE"

	// Server errors (5xx)
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// APIError carries a stable error code alongside a human-readable message
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// Response is the envelope every error reply uses
type Response struct {
	Error *APIError `json:"error"`
}

// New builds an APIError with the given code and message
func New(code ErrorCode, message string, details ...string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return New(ErrCodeBadRequest, message, details...)
}

func NewNotFoundError(message string, details ...string) *APIError {
	return New(ErrCodeNotFound, message, details...)
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return New(ErrCodeUnauthorized, message, details...)
}

func NewInternalError(message string, details ...string) *APIError {
	return New(ErrCodeInternalError, message, details...)
}
