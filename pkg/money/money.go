// Package money holds the currency-aware amount used by payment forms.
package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// ErrNotPositive is returned when a parsed amount is zero or negative.
var ErrNotPositive = errors.New("amount must be positive")

// ErrOutOfRange is returned when a parsed amount has more precision or
// magnitude than any payment can carry.
var ErrOutOfRange = errors.New("amount out of range")

// Bounds on parsed amounts, checked before any arithmetic.
const (
	MinExponent    = -8
	MaxExponent    = 12
	MaxWholeDigits = 15
)

// Currency is an ISO 4217 currency code.
type Currency struct {
	code string
}

// NewCurrency creates a Currency after validating the code is exactly 3 uppercase letters.
func NewCurrency(code string) (Currency, error) {
	if !currencyCodeRe.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 uppercase letters", code)
	}
	return Currency{code: code}, nil
}

// MustCurrency creates a Currency and panics on error. Intended for package-level variable
// initialization only.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string {
	return c.code
}

// String returns the currency code.
func (c Currency) String() string {
	return c.code
}

// USD is the currency of the demo payment form.
var USD = MustCurrency("USD")

// Money is an immutable amount in a single currency.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a Money value from a decimal amount and currency.
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

// NewFromInt is a shorthand for whole amounts.
func NewFromInt(amount int64, currency Currency) Money {
	return Money{amount: decimal.NewFromInt(amount), currency: currency}
}

// ParsePositive parses user-entered text into a strictly positive amount.
// Surrounding whitespace is ignored. NaN and infinities are rejected by the
// decimal parser; exponents and whole digits are bounded.
func ParsePositive(text string, currency Currency) (Money, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Money{}, fmt.Errorf("amount is required")
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", trimmed, err)
	}
	if !d.IsPositive() {
		return Money{}, fmt.Errorf("invalid amount %q: %w", trimmed, ErrNotPositive)
	}
	if exp := d.Exponent(); exp < MinExponent || exp > MaxExponent || d.NumDigits()+int(exp) > MaxWholeDigits {
		return Money{}, fmt.Errorf("invalid amount %q: %w", trimmed, ErrOutOfRange)
	}

	return Money{amount: d, currency: currency}, nil
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency.
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Equal returns true if both the amount and currency of m and other are equal.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String formats the value as "<amount> <currency>" with two decimals, e.g. "15000.00 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency.Code())
}
