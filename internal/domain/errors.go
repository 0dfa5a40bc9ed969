package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PaymentTooLowError is returned when a payment does not exceed the interest
// accruing in a period, so the loan can never be paid off.
type PaymentTooLowError struct {
	Payment  decimal.Decimal
	Interest decimal.Decimal
	Balance  decimal.Decimal
}

func (e *PaymentTooLowError) Error() string {
	return fmt.Sprintf("monthly payment %s does not cover accrued interest %s on balance %s",
		e.Payment.StringFixed(2), e.Interest.StringFixed(2), e.Balance.StringFixed(2))
}

// PayoffHorizonExceededError is returned when amortization does not finish
// within the configured iteration ceiling.
type PayoffHorizonExceededError struct {
	MaxMonths        int
	RemainingBalance decimal.Decimal
}

func (e *PayoffHorizonExceededError) Error() string {
	return fmt.Sprintf("loan not paid off within %d months (remaining balance %s)",
		e.MaxMonths, e.RemainingBalance.StringFixed(2))
}

// EmptyInputError is returned when an operation needs at least one active
// loan or goal and received none.
type EmptyInputError struct {
	Operation string
	What      string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no %s provided", e.Operation, e.What)
}
