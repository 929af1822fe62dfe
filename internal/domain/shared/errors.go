package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same domain error code.
// Detailed variants created with NewValidationError match the
// ErrValidation sentinel under errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound       = NewDomainError("NOT_FOUND", "Resource not found")
	ErrValidation     = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrInvalidState   = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrEmptyCart      = NewDomainError("EMPTY_CART", "Cart contains no line items")
	ErrNoActiveShift  = NewDomainError("NO_ACTIVE_SHIFT", "An open shift is required for this operation")
	ErrConflict       = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInsufficient   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrOptimisticLock = NewDomainError("OPTIMISTIC_LOCK_FAILED", "Record was modified by another transaction")
	ErrAlreadyExists  = NewDomainError("ALREADY_EXISTS", "Resource already exists")
)

// NewValidationError creates a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrValidation.Code, message)
}

// InsufficientStockError reports the first product whose snapshot stock
// could not cover a reservation requirement. It matches the
// ErrInsufficient sentinel under errors.Is.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Available int
	Required  int
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available=%d, required=%d",
		e.ProductID, e.Available, e.Required)
}

// Is matches the INSUFFICIENT_STOCK sentinel
func (e *InsufficientStockError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == ErrInsufficient.Code
}
