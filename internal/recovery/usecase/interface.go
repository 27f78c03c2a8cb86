// Package usecase implements durable tracking of in-flight terminal payments and their
// reconciliation after a restart.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	recoveryDomain "github.com/allisson/posrecovery/internal/recovery/domain"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

// PendingTransactionPersistence is the host key-value capability backing the pending store.
// GetSetting returns an error wrapping errors.ErrNotFound when the key is absent.
type PendingTransactionPersistence interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}

// TerminalLookup resolves the live configuration of a terminal, including its API key.
// It returns terminalDomain.ErrTerminalNotFound when the terminal is no longer configured.
type TerminalLookup interface {
	Lookup(ctx context.Context, id string) (*terminalDomain.Connection, error)
}

// StatusClient asks a terminal what happened to a transaction.
// It returns terminalDomain.ErrTransactionNotFound when the terminal has no record of it.
type StatusClient interface {
	GetStatus(
		ctx context.Context,
		conn *terminalDomain.Connection,
		terminalTransactionID string,
	) (*terminalDomain.StatusResponse, error)
}

// Ledger reconciles terminal outcomes into the POS transaction ledger.
type Ledger interface {
	FinalizeTransaction(
		ctx context.Context,
		pending *recoveryDomain.PendingTransaction,
		response *terminalDomain.StatusResponse,
	) error
	MarkTransactionAsFailed(
		ctx context.Context,
		pending *recoveryDomain.PendingTransaction,
		response *terminalDomain.StatusResponse,
	) error
}

// Poller resumes active monitoring of a transaction still in flight on its terminal.
// StartPolling returns immediately. The poller finalizes the transaction and removes it
// from the store once the terminal reaches a final status.
type Poller interface {
	StartPolling(posTransactionID uuid.UUID, terminalTransactionID string, terminal terminalDomain.Info)
	// IsPolling reports whether the poller currently owns posTransactionID.
	IsPolling(posTransactionID uuid.UUID) bool
}

// PendingTransactionStore persists the set of payments whose outcome is not yet confirmed.
type PendingTransactionStore interface {
	// Store upserts a transaction by id. Changing an immutable field of an existing record
	// fails with recoveryDomain.ErrImmutableField.
	Store(ctx context.Context, pending *recoveryDomain.PendingTransaction) error

	// GetPendingTransactions returns every pending transaction resolved against the live
	// terminal configuration. Resolution failures are reported per record in ResolutionErr.
	GetPendingTransactions(ctx context.Context) ([]*recoveryDomain.PendingTransaction, error)

	// RemovePendingTransaction deletes one record. Removing a missing id is a no-op.
	RemovePendingTransaction(ctx context.Context, id uuid.UUID) error

	// UpdatePolledStatus records the last observed status and returns the updated record.
	UpdatePolledStatus(
		ctx context.Context,
		id uuid.UUID,
		status string,
		polledAt time.Time,
	) (*recoveryDomain.PendingTransaction, error)
}

// Reconciler drives every pending transaction to a disposition.
type Reconciler interface {
	// RecoverPendingTransactions runs one reconciliation pass. Business outcomes are reported
	// in the result; only a store that cannot be read aborts the pass with an error.
	RecoverPendingTransactions(ctx context.Context) (*recoveryDomain.RecoveryResult, error)
}
