package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/posrecovery/internal/database"
	apperrors "github.com/allisson/posrecovery/internal/errors"
	ledgerDomain "github.com/allisson/posrecovery/internal/ledger/domain"
)

// MySQLLedgerRepository writes ledger status changes to MySQL. UUIDs are stored as BINARY(16).
type MySQLLedgerRepository struct {
	db *sql.DB
}

// UpdateStatus sets the status of an existing POS transaction.
// Returns ledgerDomain.ErrLedgerTransactionNotFound if no row matched.
func (m *MySQLLedgerRepository) UpdateStatus(ctx context.Context, update *ledgerDomain.StatusUpdate) error {
	querier := database.GetTx(ctx, m.db)

	id, err := update.TransactionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal transaction id")
	}

	query := `UPDATE pos_transactions
			  SET status = ?, terminal_transaction_id = ?, terminal_response = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		string(update.Status),
		update.TerminalTransactionID,
		nullableBytes(update.TerminalResponse),
		update.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update ledger transaction status")
	}

	// MySQL reports zero affected rows when values are unchanged, so confirm the row exists.
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected > 0 {
		return nil
	}

	var exists int
	err = querier.QueryRowContext(ctx, `SELECT 1 FROM pos_transactions WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledgerDomain.ErrLedgerTransactionNotFound
		}
		return apperrors.Wrap(err, "failed to check ledger transaction")
	}
	return nil
}

// CreateEvent appends an audit event.
func (m *MySQLLedgerRepository) CreateEvent(ctx context.Context, event *ledgerDomain.Event) error {
	querier := database.GetTx(ctx, m.db)

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event id")
	}
	transactionID, err := event.TransactionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal transaction id")
	}

	query := `INSERT INTO pos_transaction_events
			  (id, transaction_id, event_type, status, terminal_id, terminal_transaction_id, terminal_response, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		transactionID,
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

// NewMySQLLedgerRepository creates a new MySQL ledger repository.
func NewMySQLLedgerRepository(db *sql.DB) *MySQLLedgerRepository {
	return &MySQLLedgerRepository{db: db}
}
