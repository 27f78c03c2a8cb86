// Package usecase applies terminal outcomes to the POS ledger.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/posrecovery/internal/clock"
	"github.com/allisson/posrecovery/internal/database"
	ledgerDomain "github.com/allisson/posrecovery/internal/ledger/domain"
	recoveryDomain "github.com/allisson/posrecovery/internal/recovery/domain"
	terminalDomain "github.com/allisson/posrecovery/internal/terminal/domain"
)

// LedgerRepository defines ledger persistence operations.
type LedgerRepository interface {
	UpdateStatus(ctx context.Context, update *ledgerDomain.StatusUpdate) error
	CreateEvent(ctx context.Context, event *ledgerDomain.Event) error
}

// LedgerUseCase reconciles terminal outcomes into the POS ledger.
type LedgerUseCase interface {
	// FinalizeTransaction records a sale the terminal reports as completed.
	FinalizeTransaction(
		ctx context.Context,
		pending *recoveryDomain.PendingTransaction,
		response *terminalDomain.StatusResponse,
	) error

	// MarkTransactionAsFailed records a sale the terminal reports as failed or cancelled.
	MarkTransactionAsFailed(
		ctx context.Context,
		pending *recoveryDomain.PendingTransaction,
		response *terminalDomain.StatusResponse,
	) error
}

type ledgerUseCase struct {
	txManager  database.TxManager
	ledgerRepo LedgerRepository
	clock      clock.Clock
}

func (l *ledgerUseCase) FinalizeTransaction(
	ctx context.Context,
	pending *recoveryDomain.PendingTransaction,
	response *terminalDomain.StatusResponse,
) error {
	return l.apply(ctx, pending, response, ledgerDomain.TransactionStatusCompleted, ledgerDomain.EventTypeFinalized)
}

func (l *ledgerUseCase) MarkTransactionAsFailed(
	ctx context.Context,
	pending *recoveryDomain.PendingTransaction,
	response *terminalDomain.StatusResponse,
) error {
	return l.apply(ctx, pending, response, ledgerDomain.TransactionStatusFailed, ledgerDomain.EventTypeMarkedFailed)
}

// apply updates the ledger row and appends its audit event atomically.
func (l *ledgerUseCase) apply(
	ctx context.Context,
	pending *recoveryDomain.PendingTransaction,
	response *terminalDomain.StatusResponse,
	status ledgerDomain.TransactionStatus,
	eventType ledgerDomain.EventType,
) error {
	var raw []byte
	if response != nil {
		raw = response.Raw
	}
	now := l.clock.Now()

	return l.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := l.ledgerRepo.UpdateStatus(ctx, &ledgerDomain.StatusUpdate{
			TransactionID:         pending.ID,
			Status:                status,
			TerminalTransactionID: pending.TerminalTransactionID,
			TerminalResponse:      raw,
			UpdatedAt:             now,
		}); err != nil {
			return err
		}

		return l.ledgerRepo.CreateEvent(ctx, &ledgerDomain.Event{
			ID:                    uuid.Must(uuid.NewV7()),
			TransactionID:         pending.ID,
			Type:                  eventType,
			Status:                status,
			TerminalID:            pending.TerminalID,
			TerminalTransactionID: pending.TerminalTransactionID,
			TerminalResponse:      raw,
			CreatedAt:             now,
		})
	})
}

// NewLedgerUseCase creates a LedgerUseCase.
func NewLedgerUseCase(txManager database.TxManager, ledgerRepo LedgerRepository, clk clock.Clock) LedgerUseCase {
	return &ledgerUseCase{
		txManager:  txManager,
		ledgerRepo: ledgerRepo,
		clock:      clk,
	}
}
