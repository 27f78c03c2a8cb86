// Package validation provides custom validation rules for the application.
package validation

import (
	"net"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"
	"github.com/shopspring/decimal"

	apperrors "github.com/allisson/posrecovery/internal/errors"
)

var (
	// currencyRegex matches ISO 4217 alphabetic codes.
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	// hostnameRegex is a loose RFC 1123 hostname pattern.
	hostnameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?)*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// CurrencyCode validates an upper-case three letter ISO 4217 code.
var CurrencyCode = validation.NewStringRuleWithError(
	func(s string) bool {
		return currencyRegex.MatchString(s)
	},
	validation.NewError("validation_currency_code", "must be a three letter ISO 4217 currency code"),
)

// HostAddress validates an IP address or hostname without scheme or port.
var HostAddress = validation.NewStringRuleWithError(
	func(s string) bool {
		if net.ParseIP(s) != nil {
			return true
		}
		return len(s) <= 253 && hostnameRegex.MatchString(s)
	},
	validation.NewError("validation_host_address", "must be an IP address or hostname"),
)

// PositiveAmount validates that a decimal.Decimal is strictly greater than zero.
var PositiveAmount = validation.By(func(value interface{}) error {
	var amount decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		amount = v
	case *decimal.Decimal:
		if v == nil {
			return nil // Let Required handle nil
		}
		amount = *v
	default:
		return validation.NewError("validation_amount_type", "must be a decimal amount")
	}
	if !amount.IsPositive() {
		return validation.NewError("validation_amount_positive", "must be greater than zero")
	}
	return nil
})

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
