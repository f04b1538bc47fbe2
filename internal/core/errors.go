package core

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// ValidationError rejects input before any record is built.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrEmptyCart            = &ValidationError{Field: "items", Message: "cart is empty"}
	ErrInvalidQuantity      = &ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	ErrInvalidAmount        = &ValidationError{Field: "amount", Message: "amount must be a number greater than zero"}
	ErrInvalidDate          = &ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"}
	ErrUnknownPaymentMethod = &ValidationError{Field: "paymentMethod", Message: "unknown payment method"}
	ErrInvalidTone          = &ValidationError{Field: "tone", Message: "tone must be polite, firm or funny"}
)
