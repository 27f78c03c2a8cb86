package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerDomain "github.com/allisson/posrecovery/internal/ledger/domain"
	"github.com/allisson/posrecovery/internal/testutil"
)

func TestMySQLLedgerRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLLedgerRepository(db)
		update := newStatusUpdate()
		id, err := update.TransactionID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE pos_transactions`).
			WithArgs("completed", "term-tx-1", `{"status":"completed"}`, update.UpdatedAt, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateStatus(ctx, update))
	})

	t.Run("Success_UnchangedRowStillExists", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLLedgerRepository(db)
		update := newStatusUpdate()
		id, err := update.TransactionID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE pos_transactions`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT 1 FROM pos_transactions WHERE id = \?`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		require.NoError(t, repo.UpdateStatus(ctx, update))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLLedgerRepository(db)

		mock.ExpectExec(`UPDATE pos_transactions`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT 1 FROM pos_transactions`).
			WillReturnRows(sqlmock.NewRows([]string{"1"}))

		assert.ErrorIs(t, repo.UpdateStatus(ctx, newStatusUpdate()), ledgerDomain.ErrLedgerTransactionNotFound)
	})
}

func TestMySQLLedgerRepository_CreateEvent(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLLedgerRepository(db)
	event := newEvent()

	id, err := event.ID.MarshalBinary()
	require.NoError(t, err)
	txID, err := event.TransactionID.MarshalBinary()
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO pos_transaction_events`).
		WithArgs(id, txID, "terminal_finalized", "completed", "counter-1", "term-tx-1", nil, event.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateEvent(context.Background(), event))
}
