package validator

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrInvalidOrderID  = errors.New("invalid order id")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidAmount   = errors.New("amount must be positive")
)

var (
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	orderIDRegex  = regexp.MustCompile(`^[a-zA-Z0-9_\-]{1,64}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func ValidateCurrency(currency string) error {
	if !currencyRegex.MatchString(currency) {
		return ErrInvalidCurrency
	}
	return nil
}

// ValidateOrderID only constrains shape; uniqueness is deliberately not
// enforced anywhere, a repeated order id creates a new transaction.
func ValidateOrderID(orderID string) error {
	if !orderIDRegex.MatchString(orderID) {
		return ErrInvalidOrderID
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
