package utils

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrContractNotFound    = errors.New("contract not found")
	ErrContractExpired     = errors.New("contract expired")
	ErrDuplicateToken      = errors.New("duplicate contract token")
	ErrAlreadyPaid         = errors.New("contract already paid")
	ErrUnknownPackage      = errors.New("unknown package")
	ErrPaymentInit         = errors.New("payment initialization failed")
	ErrPaymentVerification = errors.New("payment verification failed")
	ErrNotifier            = errors.New("notifier error")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTooManyAttempts     = errors.New("too many failed login attempts")
	ErrDatabaseError       = errors.New("database error")
	ErrAssetUnavailable    = errors.New("asset uploads are not configured")
)

// ValidationError names the step field that is missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ProviderError carries the payment provider's own message for a rejected call.
type ProviderError struct {
	Op      string
	Message string
	kind    error
}

func NewPaymentInitError(message string) *ProviderError {
	return &ProviderError{Op: "create session", Message: message, kind: ErrPaymentInit}
}

func NewPaymentVerificationError(message string) *ProviderError {
	return &ProviderError{Op: "verify transaction", Message: message, kind: ErrPaymentVerification}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider %s: %s", e.Op, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.kind
}
