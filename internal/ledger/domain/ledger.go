// Package domain defines the POS ledger updates produced when a terminal transaction is reconciled.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/posrecovery/internal/errors"
)

// ErrLedgerTransactionNotFound indicates the POS ledger has no row for the transaction id.
var ErrLedgerTransactionNotFound = errors.Wrap(errors.ErrNotFound, "ledger transaction not found")

// TransactionStatus is the status of a sale in the POS ledger.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// EventType describes why a ledger row changed.
type EventType string

const (
	EventTypeFinalized    EventType = "terminal_finalized"
	EventTypeMarkedFailed EventType = "terminal_marked_failed"
)

// StatusUpdate sets the outcome of a POS transaction as reported by its terminal.
type StatusUpdate struct {
	TransactionID         uuid.UUID
	Status                TransactionStatus
	TerminalTransactionID string
	TerminalResponse      []byte
	UpdatedAt             time.Time
}

// Event is an append-only audit entry for a ledger status change.
type Event struct {
	ID                    uuid.UUID
	TransactionID         uuid.UUID
	Type                  EventType
	Status                TransactionStatus
	TerminalID            string
	TerminalTransactionID string
	TerminalResponse      []byte
	CreatedAt             time.Time
}
