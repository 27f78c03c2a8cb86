// Package domain defines the pending terminal transaction model and the outcome of a
// reconciliation pass.
package domain

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
	"github.com/shopspring/decimal"

	"github.com/allisson/posrecovery/internal/errors"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
	customValidation "github.com/allisson/posrecovery/internal/validation"
)

// Pending transaction error definitions.
var (
	// ErrPendingTransactionNotFound indicates no pending record exists for the id.
	ErrPendingTransactionNotFound = errors.Wrap(errors.ErrNotFound, "pending transaction not found")

	// ErrImmutableField indicates an upsert tried to change amount, currency or terminal identity.
	ErrImmutableField = errors.Wrap(errors.ErrConflict, "pending transaction field is immutable")
)

// PendingTransaction is a payment attempt whose outcome on the terminal is not yet
// confirmed in the POS ledger.
//
// ID, TerminalTransactionID, TerminalID, Amount and Currency never change after creation.
// Status and LastPolledAt are the only fields updated while the record is pending.
type PendingTransaction struct {
	ID                    uuid.UUID
	TerminalTransactionID string
	TerminalID            string
	// Terminal is the connection snapshot. After loading from the store it reflects the
	// current terminal configuration when that could be resolved.
	Terminal     terminalDomain.Info
	Amount       decimal.Decimal
	Currency     string
	Status       string
	StartedAt    time.Time
	LastPolledAt *time.Time

	// Connection is the live connection resolved on load. It is never persisted.
	Connection *terminalDomain.Connection
	// ResolutionErr is set when the live terminal configuration could not be resolved on load.
	ResolutionErr error
}

// NewPendingTransaction creates a pending record for a payment about to be sent to a terminal.
func NewPendingTransaction(
	terminalTransactionID string,
	terminal terminalDomain.Info,
	amount decimal.Decimal,
	currency string,
	startedAt time.Time,
) (*PendingTransaction, error) {
	pt := &PendingTransaction{
		ID:                    uuid.Must(uuid.NewV7()),
		TerminalTransactionID: terminalTransactionID,
		TerminalID:            terminal.ID,
		Terminal:              terminal,
		Amount:                amount,
		Currency:              currency,
		Status:                string(StatusPending),
		StartedAt:             startedAt.UTC(),
	}
	if err := pt.Validate(); err != nil {
		return nil, err
	}
	return pt, nil
}

// Validate checks that the record carries everything needed to re-query the terminal.
func (p *PendingTransaction) Validate() error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.ID, validation.By(func(value interface{}) error {
			if value.(uuid.UUID) == uuid.Nil {
				return validation.NewError("validation_required", "cannot be blank")
			}
			return nil
		})),
		validation.Field(&p.TerminalTransactionID, validation.Required, customValidation.NotBlank),
		validation.Field(&p.TerminalID, validation.Required, customValidation.NotBlank),
		validation.Field(&p.Amount, customValidation.PositiveAmount),
		validation.Field(&p.Currency, validation.Required, customValidation.CurrencyCode),
		validation.Field(&p.StartedAt, validation.Required),
	)
	return customValidation.WrapValidationError(err)
}

// Age returns how long ago the payment attempt started.
func (p *PendingTransaction) Age(now time.Time) time.Duration {
	return now.Sub(p.StartedAt)
}

// SameIdentity reports whether other describes the same payment attempt, i.e. none of the
// immutable fields differ.
func (p *PendingTransaction) SameIdentity(other *PendingTransaction) bool {
	return p.ID == other.ID &&
		p.TerminalTransactionID == other.TerminalTransactionID &&
		p.TerminalID == other.TerminalID &&
		p.Amount.Equal(other.Amount) &&
		p.Currency == other.Currency
}
