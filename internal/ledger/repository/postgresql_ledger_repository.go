// Package repository implements the POS ledger writes used to reconcile terminal outcomes.
package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/posrecovery/internal/database"
	apperrors "github.com/allisson/posrecovery/internal/errors"
	ledgerDomain "github.com/allisson/posrecovery/internal/ledger/domain"
)

// PostgreSQLLedgerRepository writes ledger status changes to PostgreSQL.
type PostgreSQLLedgerRepository struct {
	db *sql.DB
}

// UpdateStatus sets the status of an existing POS transaction.
// Returns ledgerDomain.ErrLedgerTransactionNotFound if no row matched.
func (p *PostgreSQLLedgerRepository) UpdateStatus(ctx context.Context, update *ledgerDomain.StatusUpdate) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE pos_transactions
			  SET status = $1, terminal_transaction_id = $2, terminal_response = $3, updated_at = $4
			  WHERE id = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		string(update.Status),
		update.TerminalTransactionID,
		nullableBytes(update.TerminalResponse),
		update.UpdatedAt,
		update.TransactionID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update ledger transaction status")
	}

	return checkAffected(result)
}

// CreateEvent appends an audit event.
func (p *PostgreSQLLedgerRepository) CreateEvent(ctx context.Context, event *ledgerDomain.Event) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO pos_transaction_events
			  (id, transaction_id, event_type, status, terminal_id, terminal_transaction_id, terminal_response, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.TransactionID,
		string(event.Type),
		string(event.Status),
		event.TerminalID,
		event.TerminalTransactionID,
		nullableBytes(event.TerminalResponse),
		event.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create ledger event")
	}
	return nil
}

// NewPostgreSQLLedgerRepository creates a new PostgreSQL ledger repository.
func NewPostgreSQLLedgerRepository(db *sql.DB) *PostgreSQLLedgerRepository {
	return &PostgreSQLLedgerRepository{db: db}
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return ledgerDomain.ErrLedgerTransactionNotFound
	}
	return nil
}
