// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"
	"github.com/shopspring/decimal"

	customValidation "github.com/allisson/posrecovery/internal/validation"
)

// CreatePendingTransactionRequest registers a payment attempt before it is sent to a terminal.
type CreatePendingTransactionRequest struct {
	TerminalTransactionID string          `json:"terminal_transaction_id"`
	TerminalID            string          `json:"terminal_id"`
	Amount                decimal.Decimal `json:"amount"` // Accepts "12.50" or 12.50
	Currency              string          `json:"currency"`
	// StartedAt defaults to the server time when omitted.
	StartedAt *time.Time `json:"started_at,omitempty"`
}

// Validate checks if the create pending transaction request is valid.
func (r *CreatePendingTransactionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TerminalTransactionID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.TerminalID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
		),
		validation.Field(&r.Amount, customValidation.PositiveAmount),
		validation.Field(&r.Currency,
			validation.Required,
			customValidation.CurrencyCode,
		),
	)
}
