package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrValidation is the category of every ValidationError
var ErrValidation = errors.New("validation failed")

// AmountTolerance is how far a split may drift from its total
var AmountTolerance = decimal.New(1, -2)

// ValidationError represents a validation error on one field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return ErrValidation
}

func required(field, value string) error {
	if value == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

func positive(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ValidationError{Field: field, Message: field + " must be greater than zero"}
	}
	return nil
}

// firstError returns the first non-nil error
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
